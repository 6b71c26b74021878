package models

import "github.com/google/uuid"

// Owned is implemented by every entity with a single owning user.
type Owned interface {
	Owner() uuid.UUID
}

func (v *Video) Owner() uuid.UUID    { return v.OwnerID }
func (c *Comment) Owner() uuid.UUID  { return c.OwnerID }
func (t *Tweet) Owner() uuid.UUID    { return t.OwnerID }
func (p *Playlist) Owner() uuid.UUID { return p.OwnerID }

// IsOwner is the only ownership check mutation paths consult.
func IsOwner(entity Owned, callerID uuid.UUID) bool {
	if entity == nil || callerID == uuid.Nil {
		return false
	}
	return entity.Owner() == callerID
}

// All lists every table for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Subscription{},
		&WatchHistory{},
		&Video{},
		&Comment{},
		&Tweet{},
		&Like{},
		&Playlist{},
		&PlaylistVideo{},
	}
}
