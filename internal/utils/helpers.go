package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/contact"
	"github.com/joseph-ayodele/card-scanner/internal/entity"
)

func strOrEmpty(v *structpb.Value) string {
	if v == nil {
		return ""
	}
	return v.GetStringValue()
}

func recordMap(r contact.Record) map[string]any {
	return map[string]any{
		"name":    r.Name,
		"company": r.Company,
		"title":   r.Title,
		"phone":   r.Phone,
		"email":   r.Email,
		"website": r.Website,
		"address": r.Address,
		"notes":   r.Notes,
		"raw":     r.Raw,
	}
}

// ToPBRecord encodes an extraction record as a Struct keyed by JSON field names.
func ToPBRecord(r contact.Record) (*structpb.Struct, error) {
	return structpb.NewStruct(recordMap(r))
}

// ToPBContact encodes a stored contact, adding id, scan_id and timestamps.
func ToPBContact(c *entity.Contact) (*structpb.Struct, error) {
	m := recordMap(c.Record())
	m["id"] = c.ID.String()
	if c.ScanID != nil {
		m["scan_id"] = c.ScanID.String()
	}
	m["created_at"] = c.CreatedAt.UTC().Format(time.RFC3339Nano)
	m["updated_at"] = c.UpdatedAt.UTC().Format(time.RFC3339Nano)
	return structpb.NewStruct(m)
}

// ToPBContacts encodes contacts in order as a ListValue of Structs.
func ToPBContacts(cs []*entity.Contact) (*structpb.ListValue, error) {
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(cs))}
	for _, c := range cs {
		s, err := ToPBContact(c)
		if err != nil {
			return nil, fmt.Errorf("encode contact %s: %w", c.ID, err)
		}
		out.Values = append(out.Values, structpb.NewStructValue(s))
	}
	return out, nil
}

// FromPBContact decodes a Struct produced by ToPBContact.
func FromPBContact(s *structpb.Struct) (*entity.Contact, error) {
	f := s.GetFields()
	c := &entity.Contact{}
	id, err := uuid.Parse(strOrEmpty(f["id"]))
	if err != nil {
		return nil, fmt.Errorf("%w: id must be a UUID", common.ErrInvalidInput)
	}
	c.ID = id
	if sid := strOrEmpty(f["scan_id"]); sid != "" {
		parsed, err := uuid.Parse(sid)
		if err != nil {
			return nil, fmt.Errorf("%w: scan_id must be a UUID", common.ErrInvalidInput)
		}
		c.ScanID = &parsed
	}
	c.SetRecord(FromPBRecord(s))
	if ts := strOrEmpty(f["created_at"]); ts != "" {
		c.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	if ts := strOrEmpty(f["updated_at"]); ts != "" {
		c.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return c, nil
}

// FromPBRecord reads the record fields of a Struct; missing keys stay empty.
func FromPBRecord(s *structpb.Struct) contact.Record {
	f := s.GetFields()
	return contact.Record{
		Name:    strOrEmpty(f["name"]),
		Company: strOrEmpty(f["company"]),
		Title:   strOrEmpty(f["title"]),
		Phone:   strOrEmpty(f["phone"]),
		Email:   strOrEmpty(f["email"]),
		Website: strOrEmpty(f["website"]),
		Address: strOrEmpty(f["address"]),
		Notes:   strOrEmpty(f["notes"]),
		Raw:     strOrEmpty(f["raw"]),
	}
}

// ToContactPatch reads an update request: "id" plus any editable field.
// Keys outside the editable set, and non-string values, are rejected.
func ToContactPatch(s *structpb.Struct) (uuid.UUID, entity.ContactPatch, error) {
	var patch entity.ContactPatch
	v := common.NewValidator()
	var id uuid.UUID
	for key, val := range s.GetFields() {
		if _, ok := val.GetKind().(*structpb.Value_StringValue); !ok {
			v.Field(key, val.AsInterface(), mustBeString)
			continue
		}
		str := val.GetStringValue()
		switch key {
		case "id":
			v.Field("id", str, common.UUID)
			id, _ = uuid.Parse(str)
		case "name":
			patch.Name = &str
		case "company":
			patch.Company = &str
		case "title":
			patch.Title = &str
		case "phone":
			patch.Phone = &str
		case "email":
			patch.Email = &str
		case "website":
			patch.Website = &str
		case "address":
			patch.Address = &str
		case "notes":
			patch.Notes = &str
		default:
			v.Field(key, str, notEditable)
		}
	}
	if _, ok := s.GetFields()["id"]; !ok {
		v.Field("id", nil, common.Required)
	}
	if err := v.Err(); err != nil {
		return uuid.Nil, patch, err
	}
	if err := common.ValidateStruct(patch); err != nil {
		return uuid.Nil, patch, err
	}
	return id, patch, nil
}

func mustBeString(field string, value any) *common.ValidationError {
	return &common.ValidationError{Field: field, Value: value, Message: "must be a string"}
}

func notEditable(field string, value any) *common.ValidationError {
	return &common.ValidationError{Field: field, Value: value, Message: "is not editable"}
}
