package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewComment(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.FixedZone("x", 3600))
	comment, err := NewComment(" c1 ", "  looks good  ", " lane ", now)
	if err != nil {
		t.Fatalf("NewComment() error = %v", err)
	}
	if comment.ID != "c1" || comment.Text != "looks good" || comment.Author != "lane" {
		t.Fatalf("unexpected comment %#v", comment)
	}
	if comment.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", comment.CreatedAt)
	}
}

func TestNewCommentValidation(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		id   string
		text string
		want error
	}{
		{name: "missing id", id: "", text: "hello", want: ErrInvalidID},
		{name: "blank text", id: "c1", text: "   ", want: ErrInvalidText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewComment(tc.id, tc.text, "", now); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
