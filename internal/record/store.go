package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/edudesk/contentdesk/internal/backend"
	"github.com/edudesk/contentdesk/internal/sections"
	"github.com/edudesk/contentdesk/internal/value"
)

// Store loads and saves whole records. Saves replace the stored record; there is no
// conflict detection.
type Store interface {
	Load(ctx context.Context, ref Ref) (Document, error)
	Save(ctx context.Context, doc Document) error
}

// DefaultExamBasicFields are the exam fields edited as basic data. Every other exam
// field is a section.
var DefaultExamBasicFields = []string{
	"id", "uuid", "Name", "Exam Code", "Exam Type", "Category", "Mode of Exam",
	"Official Website", "Organizing Body", "Applylink", "Application Period", "Seats",
	"Fee", "State/Region", "InstituteName",
}

// BackendStore keeps records in the admin backend.
type BackendStore struct {
	client      *backend.Client
	basicFields []string
}

// NewBackendStore returns a store over client. A nil basicFields selects
// DefaultExamBasicFields.
func NewBackendStore(client *backend.Client, basicFields []string) *BackendStore {
	if basicFields == nil {
		basicFields = DefaultExamBasicFields
	}
	return &BackendStore{client: client, basicFields: basicFields}
}

// Load implements Store.
func (s *BackendStore) Load(ctx context.Context, ref Ref) (Document, error) {
	switch ref.Kind {
	case KindCollege:
		college, err := s.client.GetCollege(ctx, ref.ID, ref.Type)
		if err != nil {
			return Document{}, fmt.Errorf("failed to load %s: %w", ref, err)
		}
		return Document{Ref: ref, Basic: college.Basic, Sections: sections.NewRegistry(college.Full)}, nil
	case KindExam, KindCollegeExam:
		flat, err := s.client.GetExam(ctx, collection(ref), ref.ID)
		if err != nil {
			return Document{}, fmt.Errorf("failed to load %s: %w", ref, err)
		}
		basic, rest := splitBasic(flat, s.basicFields)
		return Document{Ref: ref, Basic: basic, Sections: sections.NewRegistry(rest)}, nil
	}
	return Document{}, fmt.Errorf("%w: unknown kind %q", ErrBadRef, ref.Kind)
}

// Save implements Store.
func (s *BackendStore) Save(ctx context.Context, doc Document) error {
	ref := doc.Ref
	var err error
	switch ref.Kind {
	case KindCollege:
		err = s.client.UpdateCollege(ctx, ref.ID, ref.Type, doc.Name(), doc.Basic, doc.Sections.Group())
	case KindExam, KindCollegeExam:
		err = s.client.UpdateExam(ctx, collection(ref), ref.ID, doc.Basic, doc.Sections.Group())
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrBadRef, ref.Kind)
	}
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", ref, err)
	}
	return nil
}

func collection(ref Ref) backend.Collection {
	if ref.Kind == KindCollegeExam {
		return backend.CollegeExams
	}
	return backend.Exams
}

// fileRecord is the on-disk form of a record.
type fileRecord struct {
	BasicData value.Group       `json:"basic_data"`
	FullData  sections.Registry `json:"full_data"`
}

// ReadFile reads a record file. Files holding basic_data or full_data are read as is;
// any other object is treated as a flat exam record and split by basicFields.
func ReadFile(path string, basicFields []string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if gjson.GetBytes(data, "basic_data").Exists() || gjson.GetBytes(data, "full_data").Exists() {
		var rec fileRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return Document{}, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return Document{Basic: rec.BasicData, Sections: rec.FullData}, nil
	}

	flat, err := value.ParseGroup(data)
	if err != nil {
		return Document{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	basic, rest := splitBasic(flat, basicFields)
	return Document{Basic: basic, Sections: sections.NewRegistry(rest)}, nil
}

// WriteFile writes doc as indented JSON, replacing path atomically.
func WriteFile(path string, doc Document) error {
	data, err := json.MarshalIndent(fileRecord{BasicData: doc.Basic, FullData: doc.Sections}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".record-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// FileStore keeps records as JSON files under Root, one file per record at
// <Root>/<kind>/<id>[_<type>].json.
type FileStore struct {
	Root        string
	BasicFields []string
}

// ErrNotFound is returned by FileStore for a record without a file.
var ErrNotFound = errors.New("record not found")

func (s *FileStore) path(ref Ref) string {
	name := ref.ID
	if ref.Type != "" {
		name += "_" + ref.Type
	}
	return filepath.Join(s.Root, string(ref.Kind), filepath.Base(name)+".json")
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context, ref Ref) (Document, error) {
	path := s.path(ref)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	doc, err := ReadFile(path, s.BasicFields)
	if err != nil {
		return Document{}, err
	}
	doc.Ref = ref
	return doc, nil
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, doc Document) error {
	path := s.path(doc.Ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	return WriteFile(path, doc)
}
