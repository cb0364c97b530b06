package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/contact"
	"github.com/joseph-ayodele/card-scanner/internal/export"
	"github.com/joseph-ayodele/card-scanner/internal/ingest"
	"github.com/joseph-ayodele/card-scanner/internal/pipeline"
	"github.com/joseph-ayodele/card-scanner/internal/repository"
	"github.com/joseph-ayodele/card-scanner/internal/utils"
)

// ContactService implements ContactServiceServer over the repositories and
// the scan pipeline.
type ContactService struct {
	extractor      *contact.Extractor
	contactsRepo   repository.ContactRepository
	processor      *pipeline.Processor
	ingestor       ingest.Ingestor
	exporter       *export.Service
	maxTextBytes   int
	maxUploadBytes int
	logger         *slog.Logger
}

type ContactServiceDeps struct {
	Extractor      *contact.Extractor
	Contacts       repository.ContactRepository
	Processor      *pipeline.Processor
	Ingestor       ingest.Ingestor
	Exporter       *export.Service
	MaxTextBytes   int // 0 -> the extractor's processing cap
	MaxUploadBytes int // 0 -> 10 MiB
}

func NewContactService(deps ContactServiceDeps, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.MaxTextBytes <= 0 {
		deps.MaxTextBytes = deps.Extractor.MaxInputBytes()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 10 << 20
	}
	return &ContactService{
		extractor:      deps.Extractor,
		contactsRepo:   deps.Contacts,
		processor:      deps.Processor,
		ingestor:       deps.Ingestor,
		exporter:       deps.Exporter,
		maxTextBytes:   deps.MaxTextBytes,
		maxUploadBytes: deps.MaxUploadBytes,
		logger:         logger,
	}
}

// validateText enforces the byte cap; stored scans also need some text.
func (s *ContactService) validateText(text string, required bool) error {
	v := common.NewValidator()
	if required {
		v.Field("text", text, common.Required)
	}
	v.Field("text", []byte(text), common.MaxLength(s.maxTextBytes))
	return common.ValidateAndReturnError(v)
}

func (s *ContactService) ExtractContact(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	text := req.GetValue()
	if err := s.validateText(text, false); err != nil {
		common.LoggerFromContext(ctx, s.logger).Warn("extract request rejected", "bytes", len(text), "error", err)
		return nil, err
	}
	rec := s.extractor.Extract(text)
	out, err := utils.ToPBRecord(rec)
	if err != nil {
		return nil, common.InternalErrorf("encode record: %v", err)
	}
	return out, nil
}

func (s *ContactService) ScanText(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	text := req.GetValue()
	if err := s.validateText(text, true); err != nil {
		return nil, err
	}
	jobID, c, err := s.processor.ProcessText(ctx, text)
	if err != nil {
		common.LoggerFromContext(ctx, s.logger).Error("scan text failed", "job_id", jobID, "error", err)
		return nil, common.ToStatus(err)
	}
	out, err := utils.ToPBContact(c)
	if err != nil {
		return nil, common.InternalErrorf("encode contact: %v", err)
	}
	return out, nil
}

func (s *ContactService) ListContacts(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	cs, err := s.contactsRepo.List(ctx, repository.ListOpts{})
	if err != nil {
		common.LoggerFromContext(ctx, s.logger).Error("list contacts failed", "error", err)
		return nil, common.InternalError("list contacts failed")
	}
	out, err := utils.ToPBContacts(cs)
	if err != nil {
		return nil, common.InternalErrorf("encode contacts: %v", err)
	}
	return out, nil
}

func (s *ContactService) UpdateContact(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, patch, err := utils.ToContactPatch(req)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	c, err := s.contactsRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	common.LoggerFromContext(ctx, s.logger).Info("contact updated", "contact_id", id)
	out, err := utils.ToPBContact(c)
	if err != nil {
		return nil, common.InternalErrorf("encode contact: %v", err)
	}
	return out, nil
}

func (s *ContactService) DeleteContact(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	raw := strings.TrimSpace(req.GetValue())
	if err := common.ValidateAndReturnError(common.NewValidator().Field("id", raw, common.UUID)); err != nil {
		return nil, err
	}
	id := uuid.MustParse(raw)
	if err := s.contactsRepo.Delete(ctx, id); err != nil {
		return nil, common.ToStatus(err)
	}
	common.LoggerFromContext(ctx, s.logger).Info("contact deleted", "contact_id", id)
	return &emptypb.Empty{}, nil
}
