package dbgen

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const createUser = `
INSERT INTO users (id, email, password, display_name)
VALUES ($1, $2, $3, $4)
RETURNING id, email, password, display_name, created_at`

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.ID, arg.Email, arg.Password, arg.DisplayName)
	var i User
	err := row.Scan(&i.ID, &i.Email, &i.Password, &i.DisplayName, &i.CreatedAt)
	return i, err
}

const getUserByEmail = `
SELECT id, email, password, display_name, created_at FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(&i.ID, &i.Email, &i.Password, &i.DisplayName, &i.CreatedAt)
	return i, err
}

const getUserByID = `
SELECT id, email, password, display_name, created_at FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var i User
	err := row.Scan(&i.ID, &i.Email, &i.Password, &i.DisplayName, &i.CreatedAt)
	return i, err
}

const createBoard = `
INSERT INTO boards (id, name, owner_id, width, height)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, owner_id, width, height, created_at, updated_at`

type CreateBoardParams struct {
	ID      string
	Name    string
	OwnerID string
	Width   int32
	Height  int32
}

func (q *Queries) CreateBoard(ctx context.Context, arg CreateBoardParams) (Board, error) {
	row := q.db.QueryRow(ctx, createBoard, arg.ID, arg.Name, arg.OwnerID, arg.Width, arg.Height)
	var i Board
	err := row.Scan(&i.ID, &i.Name, &i.OwnerID, &i.Width, &i.Height, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getBoard = `
SELECT id, name, owner_id, width, height, created_at, updated_at FROM boards WHERE id = $1`

func (q *Queries) GetBoard(ctx context.Context, id string) (Board, error) {
	row := q.db.QueryRow(ctx, getBoard, id)
	var i Board
	err := row.Scan(&i.ID, &i.Name, &i.OwnerID, &i.Width, &i.Height, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listBoardsForUser = `
SELECT b.id, b.name, b.owner_id, b.width, b.height, b.created_at, b.updated_at
FROM boards b
JOIN board_members m ON m.board_id = b.id
WHERE m.user_id = $1
ORDER BY b.updated_at DESC`

func (q *Queries) ListBoardsForUser(ctx context.Context, userID string) ([]Board, error) {
	rows, err := q.db.Query(ctx, listBoardsForUser, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Board])
}

const deleteBoard = `DELETE FROM boards WHERE id = $1`

func (q *Queries) DeleteBoard(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, deleteBoard, id)
	return err
}

const touchBoard = `UPDATE boards SET width = $2, height = $3, updated_at = now() WHERE id = $1`

type TouchBoardParams struct {
	ID     string
	Width  int32
	Height int32
}

func (q *Queries) TouchBoard(ctx context.Context, arg TouchBoardParams) error {
	_, err := q.db.Exec(ctx, touchBoard, arg.ID, arg.Width, arg.Height)
	return err
}

const addBoardMember = `
INSERT INTO board_members (board_id, user_id, role)
VALUES ($1, $2, $3::board_role)
ON CONFLICT (board_id, user_id) DO NOTHING`

type AddBoardMemberParams struct {
	BoardID string
	UserID  string
	Role    BoardRole
}

func (q *Queries) AddBoardMember(ctx context.Context, arg AddBoardMemberParams) error {
	_, err := q.db.Exec(ctx, addBoardMember, arg.BoardID, arg.UserID, string(arg.Role))
	return err
}

const getBoardMember = `
SELECT board_id, user_id, role::text AS role, created_at
FROM board_members WHERE board_id = $1 AND user_id = $2`

type GetBoardMemberParams struct {
	BoardID string
	UserID  string
}

func (q *Queries) GetBoardMember(ctx context.Context, arg GetBoardMemberParams) (BoardMember, error) {
	row := q.db.QueryRow(ctx, getBoardMember, arg.BoardID, arg.UserID)
	var i BoardMember
	var role string
	err := row.Scan(&i.BoardID, &i.UserID, &role, &i.CreatedAt)
	i.Role = BoardRole(role)
	return i, err
}

const listBoardMembers = `
SELECT m.user_id, m.role::text AS role, u.display_name, u.email
FROM board_members m
JOIN users u ON u.id = m.user_id
WHERE m.board_id = $1
ORDER BY m.created_at`

type ListBoardMembersRow struct {
	UserID      string `db:"user_id"`
	Role        string `db:"role"`
	DisplayName string `db:"display_name"`
	Email       string `db:"email"`
}

func (q *Queries) ListBoardMembers(ctx context.Context, boardID string) ([]ListBoardMembersRow, error) {
	rows, err := q.db.Query(ctx, listBoardMembers, boardID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[ListBoardMembersRow])
}

const removeBoardMember = `DELETE FROM board_members WHERE board_id = $1 AND user_id = $2`

type RemoveBoardMemberParams struct {
	BoardID string
	UserID  string
}

func (q *Queries) RemoveBoardMember(ctx context.Context, arg RemoveBoardMemberParams) error {
	_, err := q.db.Exec(ctx, removeBoardMember, arg.BoardID, arg.UserID)
	return err
}

const createSnapshot = `
INSERT INTO snapshots (id, board_id, version, document)
VALUES ($1, $2, $3, $4)
RETURNING id, board_id, version, document, created_at`

type CreateSnapshotParams struct {
	ID       string
	BoardID  string
	Version  int32
	Document []byte
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	row := q.db.QueryRow(ctx, createSnapshot, arg.ID, arg.BoardID, arg.Version, arg.Document)
	var i Snapshot
	err := row.Scan(&i.ID, &i.BoardID, &i.Version, &i.Document, &i.CreatedAt)
	return i, err
}

const getLatestSnapshot = `
SELECT id, board_id, version, document, created_at
FROM snapshots WHERE board_id = $1
ORDER BY version DESC LIMIT 1`

func (q *Queries) GetLatestSnapshot(ctx context.Context, boardID string) (Snapshot, error) {
	row := q.db.QueryRow(ctx, getLatestSnapshot, boardID)
	var i Snapshot
	err := row.Scan(&i.ID, &i.BoardID, &i.Version, &i.Document, &i.CreatedAt)
	return i, err
}
