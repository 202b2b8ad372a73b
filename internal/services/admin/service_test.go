package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
	"github.com/Segsoto/EstafadoresCR/internal/services/broadcast"
)

var errStoreNotFound = errors.New("store: not found")

type fakeReportStore struct {
	reports map[int64]model.Report
}

func newFakeReportStore(reports ...model.Report) *fakeReportStore {
	store := &fakeReportStore{reports: make(map[int64]model.Report)}
	for _, rep := range reports {
		store.reports[rep.ID] = rep
	}
	return store
}

func (f *fakeReportStore) GetByID(_ context.Context, id int64) (model.Report, error) {
	rep, ok := f.reports[id]
	if !ok {
		return model.Report{}, errStoreNotFound
	}
	return rep, nil
}

func (f *fakeReportStore) AdminList(_ context.Context, status enums.ReportStatus, _, _ int) ([]model.Report, error) {
	var out []model.Report
	for _, rep := range f.reports {
		if status == "" || rep.Status == status {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (f *fakeReportStore) ListPendingReview(_ context.Context, _ int) ([]model.Report, error) {
	var out []model.Report
	for _, rep := range f.reports {
		if rep.Status == enums.ReportStatusPending && rep.RequiresReview {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (f *fakeReportStore) UpdateStatus(_ context.Context, id int64, status enums.ReportStatus, reason string) error {
	rep, ok := f.reports[id]
	if !ok {
		return errStoreNotFound
	}
	rep.Status = status
	if reason != "" {
		rep.ModerationReason = reason
	}
	rep.RequiresReview = false
	f.reports[id] = rep
	return nil
}

func (f *fakeReportStore) SetVerified(_ context.Context, id int64, verified bool) error {
	rep, ok := f.reports[id]
	if !ok {
		return errStoreNotFound
	}
	rep.Verified = verified
	f.reports[id] = rep
	return nil
}

func (f *fakeReportStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.reports[id]; !ok {
		return errStoreNotFound
	}
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

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) Publish(eventType string, _ any) {
	f.events = append(f.events, eventType)
}

func newTestService(store *fakeReportStore, pub *fakePublisher, ev *fakeEvidence) (*Service, *fakeChildStore, *fakeChildStore) {
	votes := &fakeChildStore{}
	comments := &fakeChildStore{}
	svc := NewService(store, votes, comments, ev, pub,
		func(err error) bool { return errors.Is(err, errStoreNotFound) }, nil)
	return svc, votes, comments
}

func pendingReport(id int64) model.Report {
	return model.Report{
		ID:             id,
		Status:         enums.ReportStatusPending,
		RequiresReview: true,
	}
}

func TestApproveFlaggedReport(t *testing.T) {
	store := newFakeReportStore(pendingReport(1))
	pub := &fakePublisher{}
	svc, _, _ := newTestService(store, pub, nil)

	rep, err := svc.Approve(context.Background(), 1)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if rep.Status != enums.ReportStatusApproved {
		t.Fatalf("unexpected status: %s", rep.Status)
	}
	if rep.RequiresReview {
		t.Fatalf("review marker must clear on decision")
	}
	if len(pub.events) != 1 || pub.events[0] != broadcast.EventStatusChanged {
		t.Fatalf("expected reportStatusChanged broadcast, got %v", pub.events)
	}
}

func TestRejectStoresReason(t *testing.T) {
	store := newFakeReportStore(pendingReport(1))
	svc, _, _ := newTestService(store, &fakePublisher{}, nil)

	rep, err := svc.Reject(context.Background(), 1, "información insuficiente")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rep.Status != enums.ReportStatusRejected {
		t.Fatalf("unexpected status: %s", rep.Status)
	}
	if rep.ModerationReason != "información insuficiente" {
		t.Fatalf("unexpected reason: %q", rep.ModerationReason)
	}
}

func TestSetStatusMissingReport(t *testing.T) {
	svc, _, _ := newTestService(newFakeReportStore(), &fakePublisher{}, nil)

	if _, err := svc.Approve(context.Background(), 42); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestVerifyReport(t *testing.T) {
	store := newFakeReportStore(model.Report{ID: 1, Status: enums.ReportStatusApproved})
	svc, _, _ := newTestService(store, &fakePublisher{}, nil)

	rep, err := svc.Verify(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !rep.Verified {
		t.Fatalf("expected verified report")
	}
}

func TestDeleteCascades(t *testing.T) {
	store := newFakeReportStore(model.Report{
		ID:          1,
		Status:      enums.ReportStatusApproved,
		EvidenceKey: "evidence/20250101/key.png",
	})
	ev := &fakeEvidence{}
	svc, votes, comments := newTestService(store, &fakePublisher{}, ev)

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(votes.deleted) != 1 || votes.deleted[0] != 1 {
		t.Fatalf("expected vote cascade, got %v", votes.deleted)
	}
	if len(comments.deleted) != 1 {
		t.Fatalf("expected comment cascade, got %v", comments.deleted)
	}
	if len(ev.deleted) != 1 || ev.deleted[0] != "evidence/20250101/key.png" {
		t.Fatalf("expected evidence cleanup, got %v", ev.deleted)
	}
	if _, err := store.GetByID(context.Background(), 1); !errors.Is(err, errStoreNotFound) {
		t.Fatalf("report must be gone, got %v", err)
	}
}

func TestPendingReviewQueue(t *testing.T) {
	store := newFakeReportStore(
		pendingReport(1),
		model.Report{ID: 2, Status: enums.ReportStatusApproved},
	)
	svc, _, _ := newTestService(store, &fakePublisher{}, nil)

	queue, err := svc.PendingReview(context.Background(), 10)
	if err != nil {
		t.Fatalf("pending review: %v", err)
	}
	if len(queue) != 1 || queue[0].ID != 1 {
		t.Fatalf("unexpected queue: %+v", queue)
	}
}

func TestSetStatusValidation(t *testing.T) {
	svc, _, _ := newTestService(newFakeReportStore(pendingReport(1)), &fakePublisher{}, nil)

	if _, err := svc.SetStatus(context.Background(), 1, enums.ReportStatus("archived"), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
