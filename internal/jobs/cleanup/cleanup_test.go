package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
)

type fakeReportStore struct {
	reports map[int64]model.Report
}

func (f *fakeReportStore) ListRejectedBefore(_ context.Context, cutoff time.Time, _ int) ([]model.Report, error) {
	var out []model.Report
	for _, rep := range f.reports {
		if rep.UpdatedAt.Before(cutoff) {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (f *fakeReportStore) Delete(_ context.Context, id int64) error {
	delete(f.reports, id)
	return nil
}

type fakeChildStore struct {
	deleted []int64
}

func (f *fakeChildStore) DeleteByReport(_ context.Context, reportID int64) error {
	f.deleted = append(f.deleted, reportID)
	return nil
}

type fakeEvidence struct {
	deleted []string
}

func (f *fakeEvidence) DeleteEvidence(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func TestRunPurgesStaleRejectedReports(t *testing.T) {
	now := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)
	retention := 30 * 24 * time.Hour

	store := &fakeReportStore{reports: map[int64]model.Report{
		1: {ID: 1, EvidenceKey: "evidence/old/key.png", UpdatedAt: now.Add(-31 * 24 * time.Hour)},
		2: {ID: 2, UpdatedAt: now.Add(-29 * 24 * time.Hour)},
	}}
	votes := &fakeChildStore{}
	comments := &fakeChildStore{}
	evidence := &fakeEvidence{}

	job := NewJob(store, votes, comments, evidence, retention, nil)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}

	if _, ok := store.reports[1]; ok {
		t.Fatalf("expected stale report to be deleted")
	}
	if _, ok := store.reports[2]; !ok {
		t.Fatalf("expected fresh rejected report to remain")
	}
	if len(votes.deleted) != 1 || votes.deleted[0] != 1 {
		t.Fatalf("expected vote cascade for report 1, got %v", votes.deleted)
	}
	if len(comments.deleted) != 1 {
		t.Fatalf("expected comment cascade, got %v", comments.deleted)
	}
	if len(evidence.deleted) != 1 || evidence.deleted[0] != "evidence/old/key.png" {
		t.Fatalf("expected evidence cleanup, got %v", evidence.deleted)
	}
}

func TestRunWithoutStoreIsNoop(t *testing.T) {
	job := NewJob(nil, nil, nil, nil, 0, nil)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("expected noop run, got %v", err)
	}
}
