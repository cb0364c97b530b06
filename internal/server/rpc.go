package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ContactServiceName is the fully qualified gRPC service name. Messages are
// protobuf well-known types, so clients need no generated stubs.
const ContactServiceName = "cardscan.v1.ContactService"

const (
	ContactService_ExtractContact_FullMethodName = "/" + ContactServiceName + "/ExtractContact"
	ContactService_ScanText_FullMethodName       = "/" + ContactServiceName + "/ScanText"
	ContactService_ScanImage_FullMethodName      = "/" + ContactServiceName + "/ScanImage"
	ContactService_ListContacts_FullMethodName   = "/" + ContactServiceName + "/ListContacts"
	ContactService_UpdateContact_FullMethodName  = "/" + ContactServiceName + "/UpdateContact"
	ContactService_DeleteContact_FullMethodName  = "/" + ContactServiceName + "/DeleteContact"
	ContactService_ExportContacts_FullMethodName = "/" + ContactServiceName + "/ExportContacts"
)

// ContactServiceServer is the server API for cardscan.v1.ContactService.
type ContactServiceServer interface {
	// ExtractContact classifies OCR text without storing anything.
	ExtractContact(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// ScanText classifies text and stores the contact.
	ScanText(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// ScanImage stores a card image, runs OCR and stores the contact.
	ScanImage(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	// ListContacts returns stored contacts, newest first.
	ListContacts(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// UpdateContact applies user edits; the struct carries "id" plus fields.
	UpdateContact(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteContact(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	// ExportContacts renders all contacts as csv, xlsx or vcf.
	ExportContacts(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
}

func RegisterContactServiceServer(s grpc.ServiceRegistrar, srv ContactServiceServer) {
	s.RegisterService(&ContactService_ServiceDesc, srv)
}

// unary builds a method handler for one request type.
func unary[Req any, Resp any](fullMethod string, call func(ContactServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ContactServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ContactServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ContactService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ContactServiceName,
	HandlerType: (*ContactServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ExtractContact", Handler: unary(ContactService_ExtractContact_FullMethodName, ContactServiceServer.ExtractContact)},
		{MethodName: "ScanText", Handler: unary(ContactService_ScanText_FullMethodName, ContactServiceServer.ScanText)},
		{MethodName: "ScanImage", Handler: unary(ContactService_ScanImage_FullMethodName, ContactServiceServer.ScanImage)},
		{MethodName: "ListContacts", Handler: unary(ContactService_ListContacts_FullMethodName, ContactServiceServer.ListContacts)},
		{MethodName: "UpdateContact", Handler: unary(ContactService_UpdateContact_FullMethodName, ContactServiceServer.UpdateContact)},
		{MethodName: "DeleteContact", Handler: unary(ContactService_DeleteContact_FullMethodName, ContactServiceServer.DeleteContact)},
		{MethodName: "ExportContacts", Handler: unary(ContactService_ExportContacts_FullMethodName, ContactServiceServer.ExportContacts)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cardscan/v1/contact.proto",
}

// ContactServiceClient is the client API for cardscan.v1.ContactService.
type ContactServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewContactServiceClient(cc grpc.ClientConnInterface) *ContactServiceClient {
	return &ContactServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ContactServiceClient) ExtractContact(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ContactService_ExtractContact_FullMethodName, in, opts)
}

func (c *ContactServiceClient) ScanText(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ContactService_ScanText_FullMethodName, in, opts)
}

func (c *ContactServiceClient) ScanImage(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ContactService_ScanImage_FullMethodName, in, opts)
}

func (c *ContactServiceClient) ListContacts(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, ContactService_ListContacts_FullMethodName, in, opts)
}

func (c *ContactServiceClient) UpdateContact(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ContactService_UpdateContact_FullMethodName, in, opts)
}

func (c *ContactServiceClient) DeleteContact(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, ContactService_DeleteContact_FullMethodName, in, opts)
}

func (c *ContactServiceClient) ExportContacts(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return invoke[wrapperspb.BytesValue](ctx, c.cc, ContactService_ExportContacts_FullMethodName, in, opts)
}
