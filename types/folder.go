package types

import "time"

// Folder is a named collection of cards owned by a single user.
type Folder struct {
	// ID is the unique identifier of the folder.
	ID int `json:"id" db:"id"`

	// Name is the human-readable name of the folder.
	Name string `json:"name" db:"name"`

	// Public marks the folder as browsable by anyone. Non-owners can only
	// resolve a folder (and its cards) when this flag is set; the owner
	// always has full access regardless of it.
	Public bool `json:"public" db:"public"`

	// UserID is the identifier of the owning user.
	UserID int `json:"user_id" db:"user_id"`

	// CreatedAt is the timestamp when the folder was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the folder.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
