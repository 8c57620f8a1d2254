package dbgen

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type BoardRole string

const (
	BoardRoleOwner  BoardRole = "owner"
	BoardRoleEditor BoardRole = "editor"
	BoardRoleViewer BoardRole = "viewer"
)

type User struct {
	ID          string             `db:"id"`
	Email       string             `db:"email"`
	Password    string             `db:"password"`
	DisplayName string             `db:"display_name"`
	CreatedAt   pgtype.Timestamptz `db:"created_at"`
}

type Board struct {
	ID        string             `db:"id"`
	Name      string             `db:"name"`
	OwnerID   string             `db:"owner_id"`
	Width     int32              `db:"width"`
	Height    int32              `db:"height"`
	CreatedAt pgtype.Timestamptz `db:"created_at"`
	UpdatedAt pgtype.Timestamptz `db:"updated_at"`
}

type BoardMember struct {
	BoardID   string             `db:"board_id"`
	UserID    string             `db:"user_id"`
	Role      BoardRole          `db:"role"`
	CreatedAt pgtype.Timestamptz `db:"created_at"`
}

type Snapshot struct {
	ID        string             `db:"id"`
	BoardID   string             `db:"board_id"`
	Version   int32              `db:"version"`
	Document  []byte             `db:"document"`
	CreatedAt pgtype.Timestamptz `db:"created_at"`
}
