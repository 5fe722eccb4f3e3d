package types

import "time"

// Card is a single flashcard inside a folder.
type Card struct {
	// ID is the unique identifier of the card.
	ID int `json:"id" db:"id"`

	// Front is the prompt side of the card.
	Front string `json:"front" db:"front"`

	// Back is the answer side of the card.
	Back string `json:"back" db:"back"`

	// FolderID is the identifier of the folder the card belongs to.
	FolderID int `json:"folder_id" db:"folder_id"`

	// CreatedAt is the timestamp when the card was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the card.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
