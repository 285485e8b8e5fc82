package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/logger"
	"github.com/ignite/phishsim/internal/pkg/validation"
	"github.com/ignite/phishsim/internal/repository"
)

// DefaultMaxBytes caps an upload when no limit is configured.
const DefaultMaxBytes = 10 << 20

// saveFailedMessage is reported for rows the store rejected.
const saveFailedMessage = "could not save row"

// headerAliases maps lowercased CSV headers to Target fields.
var headerAliases = map[string]string{
	"firstname":  "firstName",
	"first_name": "firstName",
	"lastname":   "lastName",
	"last_name":  "lastName",
	"email":      "email",
	"position":   "position",
	"title":      "position",
}

// RowError reports why one data row was not imported. Row is the 1-based
// line number in the file, counting the header.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Result summarises an import.
type Result struct {
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors,omitempty"`
}

// Service runs CSV imports.
type Service struct {
	repo     Repository
	maxBytes int64
}

// NewService creates an importer. maxBytes <= 0 uses DefaultMaxBytes.
func NewService(repo Repository, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{repo: repo, maxBytes: maxBytes}
}

// MaxBytes is the largest accepted upload.
func (s *Service) MaxBytes() int64 { return s.maxBytes }

// ImportReader reads at most MaxBytes from r and imports it.
func (s *Service) ImportReader(ctx context.Context, orgID, groupID int64, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, validation.Field("file", fmt.Sprintf("must be at most %d bytes", s.maxBytes))
	}
	return s.Import(ctx, orgID, groupID, data)
}

// Import creates a Target in groupID for every valid row of data.
func (s *Service) Import(ctx context.Context, orgID, groupID int64, data []byte) (*Result, error) {
	g, err := s.repo.GetGroup(ctx, groupID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && g.OrganizationID != orgID) {
		return nil, &domain.AccessDeniedError{Refs: []string{repository.RefGroup}}
	}
	if err != nil {
		return nil, fmt.Errorf("load group: %w", err)
	}

	rows, err := parse(data)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i, row := range rows {
		line := i + 2
		in := toTarget(row)
		if err := validation.Struct(in); err != nil {
			res.fail(line, err)
			continue
		}
		if _, err := s.repo.CreateTarget(ctx, orgID, groupID, in); err != nil {
			logger.Warn("import row failed", "group_id", groupID, "row", line, "error", err)
			res.failMessage(line, saveFailedMessage)
			continue
		}
		res.Imported++
	}
	logger.Info("csv import finished",
		"org_id", orgID, "group_id", groupID, "imported", res.Imported, "failed", res.Failed)
	return res, nil
}

func (r *Result) fail(line int, err error) {
	r.failMessage(line, err.Error())
}

func (r *Result) failMessage(line int, msg string) {
	r.Failed++
	r.Errors = append(r.Errors, RowError{Row: line, Error: msg})
}

// parse reads the whole file and returns each data row keyed by normalized
// header. Any reader error rejects the file.
func parse(data []byte) ([]map[string]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, validation.Field("file", "invalid CSV: "+err.Error())
	}
	if len(records) == 0 {
		return nil, nil
	}

	keys := make([]string, len(records[0]))
	for i, h := range records[0] {
		keys[i] = headerAliases[strings.ToLower(strings.TrimSpace(h))]
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(keys))
		for i, v := range rec {
			if i < len(keys) && keys[i] != "" {
				row[keys[i]] = strings.TrimSpace(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toTarget(row map[string]string) domain.InsertTarget {
	in := domain.InsertTarget{
		FirstName: row["firstName"],
		LastName:  row["lastName"],
		Email:     row["email"],
	}
	if p := row["position"]; p != "" {
		in.Position = &p
	}
	return in
}
