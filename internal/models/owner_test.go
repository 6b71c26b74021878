package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestIsOwner(t *testing.T) {
	owner := uuid.New()
	video := &Video{OwnerID: owner}

	if !IsOwner(video, owner) {
		t.Fatalf("owner should be recognised")
	}
	if IsOwner(video, uuid.New()) {
		t.Fatalf("stranger should not be owner")
	}
	if IsOwner(video, uuid.Nil) {
		t.Fatalf("nil caller should never own anything")
	}
	if IsOwner(nil, owner) {
		t.Fatalf("nil entity should not be owned")
	}
}

func TestLikeTargetConstructors(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		target LikeTarget
		kind   TargetKind
	}{
		{VideoTarget(id), TargetVideo},
		{CommentTarget(id), TargetComment},
		{TweetTarget(id), TargetTweet},
	}
	for _, c := range cases {
		if c.target.Kind != c.kind || c.target.ID != id {
			t.Fatalf("target = %+v, want kind %s", c.target, c.kind)
		}
	}
}
