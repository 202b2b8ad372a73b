package comments

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
	"github.com/Segsoto/EstafadoresCR/internal/services/broadcast"
)

var errStoreNotFound = errors.New("store: not found")

type fakeCommentStore struct {
	comments []model.Comment
	nextID   int64
}

func (f *fakeCommentStore) Create(_ context.Context, reportID int64, author, text string) (model.Comment, error) {
	f.nextID++
	comment := model.Comment{ID: f.nextID, ReportID: reportID, Author: author, Text: text}
	f.comments = append(f.comments, comment)
	return comment, nil
}

func (f *fakeCommentStore) ListByReport(_ context.Context, reportID int64) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range f.comments {
		if c.ReportID == reportID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeReportStore struct {
	report model.Report
}

func (f *fakeReportStore) GetByID(_ context.Context, id int64) (model.Report, error) {
	if f.report.ID != id {
		return model.Report{}, errStoreNotFound
	}
	return f.report, nil
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) Publish(eventType string, _ any) {
	f.events = append(f.events, eventType)
}

func newTestService(store *fakeCommentStore, pub *fakePublisher) *Service {
	reports := &fakeReportStore{report: model.Report{ID: 1, Status: enums.ReportStatusApproved}}
	return NewService(store, reports, pub, func(err error) bool { return errors.Is(err, errStoreNotFound) }, nil)
}

func TestAddComment(t *testing.T) {
	store := &fakeCommentStore{}
	pub := &fakePublisher{}
	svc := newTestService(store, pub)

	comment, err := svc.Add(context.Background(), 1, "María", "A mí también me llamaron de ese número.")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if comment.Author != "María" {
		t.Fatalf("unexpected author: %q", comment.Author)
	}
	if len(pub.events) != 1 || pub.events[0] != broadcast.EventNewComment {
		t.Fatalf("expected newComment broadcast, got %v", pub.events)
	}
}

func TestAddCommentDefaultsAnonymousAuthor(t *testing.T) {
	svc := newTestService(&fakeCommentStore{}, &fakePublisher{})

	comment, err := svc.Add(context.Background(), 1, "   ", "Comentario sin nombre de autor.")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if comment.Author != "Anónimo" {
		t.Fatalf("expected anonymous author, got %q", comment.Author)
	}
}

func TestAddCommentLengthBounds(t *testing.T) {
	svc := newTestService(&fakeCommentStore{}, &fakePublisher{})
	ctx := context.Background()

	if _, err := svc.Add(ctx, 1, "a", "no"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for short text, got %v", err)
	}
	if _, err := svc.Add(ctx, 1, "a", strings.Repeat("x", 501)); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for long text, got %v", err)
	}
	if _, err := svc.Add(ctx, 1, "a", strings.Repeat("x", 500)); err != nil {
		t.Fatalf("500 chars must be allowed: %v", err)
	}
}

func TestAddCommentToMissingReport(t *testing.T) {
	svc := newTestService(&fakeCommentStore{}, &fakePublisher{})

	if _, err := svc.Add(context.Background(), 42, "a", "Comentario válido."); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestListComments(t *testing.T) {
	store := &fakeCommentStore{}
	svc := newTestService(store, &fakePublisher{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Add(ctx, 1, "a", "Comentario número suficiente."); err != nil {
			t.Fatalf("add #%d: %v", i, err)
		}
	}

	comments, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
}
