package server

import (
	"context"

	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/common"
)

// ExportContacts renders every stored contact; the request names the format
// ("csv", "xlsx"/"excel", "vcf"/"vcard"), defaulting to csv.
func (s *ContactService) ExportContacts(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	name := req.GetValue()
	if name == "" {
		name = string(constants.ExportCSV)
	}
	format, err := constants.ParseExportFormat(name)
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}

	out, err := s.exporter.Export(ctx, format)
	if err != nil {
		common.LoggerFromContext(ctx, s.logger).Error("export."+string(format)+".failed", "error", err)
		return nil, common.InternalError(err.Error())
	}
	return wrapperspb.Bytes(out.Data), nil
}
