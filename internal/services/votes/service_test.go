package votes

import (
	"context"
	"errors"
	"testing"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
	"github.com/Segsoto/EstafadoresCR/internal/services/broadcast"
)

var (
	errStoreNotFound = errors.New("store: not found")
	errStoreConflict = errors.New("store: duplicate vote")
)

type fakeVoteStore struct {
	seen map[string]struct{}
}

func (f *fakeVoteStore) Create(_ context.Context, reportID int64, voteType enums.VoteType, voterHash string) (model.Vote, error) {
	if f.seen == nil {
		f.seen = make(map[string]struct{})
	}
	key := voterHash
	if _, ok := f.seen[key]; ok {
		return model.Vote{}, errStoreConflict
	}
	f.seen[key] = struct{}{}
	return model.Vote{ID: 1, ReportID: reportID, Type: voteType}, nil
}

type fakeReportStore struct {
	report model.Report
	up     int
	down   int
}

func (f *fakeReportStore) GetByID(_ context.Context, id int64) (model.Report, error) {
	if f.report.ID != id {
		return model.Report{}, errStoreNotFound
	}
	return f.report, nil
}

func (f *fakeReportStore) ApplyVoteDelta(_ context.Context, id int64, up, down int) (model.VoteTally, error) {
	f.up += up
	f.down += down
	return model.VoteTally{ReportID: id, UpVotes: f.up, DownVotes: f.down}, nil
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) Publish(eventType string, _ any) {
	f.events = append(f.events, eventType)
}

func newTestService(reports *fakeReportStore, pub *fakePublisher) *Service {
	return NewService(
		&fakeVoteStore{},
		reports,
		pub,
		func(err error) bool { return errors.Is(err, errStoreNotFound) },
		func(err error) bool { return errors.Is(err, errStoreConflict) },
		nil,
	)
}

func approvedReport() model.Report {
	return model.Report{ID: 1, Status: enums.ReportStatusApproved}
}

func TestCastUpVote(t *testing.T) {
	reports := &fakeReportStore{report: approvedReport()}
	pub := &fakePublisher{}
	svc := newTestService(reports, pub)

	tally, err := svc.Cast(context.Background(), 1, enums.VoteTypeUp, "203.0.113.7")
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if tally.UpVotes != 1 || tally.DownVotes != 0 {
		t.Fatalf("unexpected tally: %+v", tally)
	}
	if len(pub.events) != 1 || pub.events[0] != broadcast.EventVoteUpdate {
		t.Fatalf("expected voteUpdate broadcast, got %v", pub.events)
	}
}

func TestCastSecondVoteFromSameIPIsRejected(t *testing.T) {
	reports := &fakeReportStore{report: approvedReport()}
	svc := newTestService(reports, &fakePublisher{})
	ctx := context.Background()

	if _, err := svc.Cast(ctx, 1, enums.VoteTypeUp, "203.0.113.7"); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if _, err := svc.Cast(ctx, 1, enums.VoteTypeDown, "203.0.113.7"); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	if reports.up != 1 || reports.down != 0 {
		t.Fatalf("rejected vote must not change counters: up=%d down=%d", reports.up, reports.down)
	}
}

func TestCastDifferentIPsBothCount(t *testing.T) {
	reports := &fakeReportStore{report: approvedReport()}
	svc := newTestService(reports, &fakePublisher{})
	ctx := context.Background()

	if _, err := svc.Cast(ctx, 1, enums.VoteTypeUp, "203.0.113.7"); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	tally, err := svc.Cast(ctx, 1, enums.VoteTypeDown, "203.0.113.8")
	if err != nil {
		t.Fatalf("second vote: %v", err)
	}
	if tally.UpVotes != 1 || tally.DownVotes != 1 {
		t.Fatalf("unexpected tally: %+v", tally)
	}
}

func TestCastOnMissingOrUnapprovedReport(t *testing.T) {
	svc := newTestService(&fakeReportStore{report: model.Report{ID: 1, Status: enums.ReportStatusPending}}, &fakePublisher{})

	if _, err := svc.Cast(context.Background(), 1, enums.VoteTypeUp, "203.0.113.7"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound for pending report, got %v", err)
	}
	if _, err := svc.Cast(context.Background(), 99, enums.VoteTypeUp, "203.0.113.7"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound for missing report, got %v", err)
	}
}

func TestCastValidation(t *testing.T) {
	svc := newTestService(&fakeReportStore{report: approvedReport()}, &fakePublisher{})

	if _, err := svc.Cast(context.Background(), 1, enums.VoteType("sideways"), "203.0.113.7"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad vote type, got %v", err)
	}
	if _, err := svc.Cast(context.Background(), 1, enums.VoteTypeUp, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty ip, got %v", err)
	}
}
