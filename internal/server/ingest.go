package server

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/utils"
)

// ScanImage stores the uploaded card image, runs OCR and stores the contact.
// The image type is sniffed from its bytes.
func (s *ContactService) ScanImage(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
	logger := common.LoggerFromContext(ctx, s.logger)
	data := req.GetValue()
	v := common.NewValidator().
		Field("image", data, common.Required).
		Field("image", data, common.MaxLength(s.maxUploadBytes))
	if err := common.ValidateAndReturnError(v); err != nil {
		logger.Warn("scan image rejected", "bytes", len(data), "error", err)
		return nil, err
	}

	r, err := s.ingestor.IngestBytes(ctx, data, "")
	if err != nil {
		logger.Error("ingest upload failed", "error", err)
		return nil, common.ToStatus(err)
	}
	logger.Info("upload ingested", "file_id", r.FileID, "deduplicated", r.Deduplicated)

	fileID, err := uuid.Parse(r.FileID)
	if err != nil {
		return nil, common.InternalErrorf("bad file id %q", r.FileID)
	}
	jobID, c, err := s.processor.ProcessFile(ctx, fileID)
	if err != nil {
		logger.Error("pipeline.failed", "file_id", r.FileID, "job_id", jobID, "error", err)
		return nil, common.ToStatus(err)
	}
	out, err := utils.ToPBContact(c)
	if err != nil {
		return nil, common.InternalErrorf("encode contact: %v", err)
	}
	return out, nil
}
