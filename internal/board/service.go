package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inamate/inamate/canvas-go/internal/asset"
	"github.com/inamate/inamate/canvas-go/internal/canvas"
	"github.com/inamate/inamate/canvas-go/internal/db/dbgen"
	"github.com/inamate/inamate/canvas-go/internal/document"
	"github.com/inamate/inamate/canvas-go/internal/engine"
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/render"
	"github.com/inamate/inamate/canvas-go/internal/typeid"
)

var (
	ErrNotFound          = errors.New("board not found")
	ErrForbidden         = errors.New("forbidden")
	ErrNotMember         = errors.New("not a board member")
	ErrInviteeNotFound   = errors.New("invitee not found")
	ErrCannotRemoveOwner = errors.New("cannot remove board owner")
	ErrInvalidDocument   = errors.New("invalid canvas document")
	ErrNoObjects         = errors.New("no matching objects")
)

// Store is the slice of *dbgen.Queries the service needs.
type Store interface {
	CreateBoard(ctx context.Context, arg dbgen.CreateBoardParams) (dbgen.Board, error)
	GetBoard(ctx context.Context, id string) (dbgen.Board, error)
	ListBoardsForUser(ctx context.Context, userID string) ([]dbgen.Board, error)
	DeleteBoard(ctx context.Context, id string) error
	TouchBoard(ctx context.Context, arg dbgen.TouchBoardParams) error
	AddBoardMember(ctx context.Context, arg dbgen.AddBoardMemberParams) error
	GetBoardMember(ctx context.Context, arg dbgen.GetBoardMemberParams) (dbgen.BoardMember, error)
	ListBoardMembers(ctx context.Context, boardID string) ([]dbgen.ListBoardMembersRow, error)
	RemoveBoardMember(ctx context.Context, arg dbgen.RemoveBoardMemberParams) error
	CreateSnapshot(ctx context.Context, arg dbgen.CreateSnapshotParams) (dbgen.Snapshot, error)
	GetLatestSnapshot(ctx context.Context, boardID string) (dbgen.Snapshot, error)
	GetUserByEmail(ctx context.Context, email string) (dbgen.User, error)
}

type Service struct {
	store  Store
	loader *asset.Loader
}

// NewService creates a board service. loader resolves image sources when
// boards are rendered; nil renders images as empty.
func NewService(store Store, loader *asset.Loader) *Service {
	return &Service{store: store, loader: loader}
}

type Board struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Snapshot is a stored version of a board's canvas document.
type Snapshot struct {
	Version  int             `json:"version"`
	Document json.RawMessage `json:"document"`
}

// CreateParams describes a new board. Sample seeds the demo document
// instead of an empty one.
type CreateParams struct {
	Name   string
	Width  int
	Height int
	Sample bool
}

func (s *Service) Create(ctx context.Context, p CreateParams, ownerID string) (*Board, error) {
	boardID := typeid.NewBoardID()

	dbBoard, err := s.store.CreateBoard(ctx, dbgen.CreateBoardParams{
		ID:      boardID,
		Name:    p.Name,
		OwnerID: ownerID,
		Width:   int32(p.Width),
		Height:  int32(p.Height),
	})
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	err = s.store.AddBoardMember(ctx, dbgen.AddBoardMemberParams{
		BoardID: boardID,
		UserID:  ownerID,
		Role:    dbgen.BoardRoleOwner,
	})
	if err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	doc := document.NewEmptyDocument(float64(p.Width), float64(p.Height))
	if p.Sample {
		doc = document.NewSampleDocument(float64(p.Width), float64(p.Height))
	}
	docJSON, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal initial document: %w", err)
	}

	_, err = s.store.CreateSnapshot(ctx, dbgen.CreateSnapshotParams{
		ID:       typeid.NewSnapshotID(),
		BoardID:  boardID,
		Version:  1,
		Document: docJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return toBoard(dbBoard), nil
}

func (s *Service) Get(ctx context.Context, boardID, userID string) (*Board, error) {
	if _, err := s.membership(ctx, boardID, userID); err != nil {
		return nil, err
	}

	dbBoard, err := s.getBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return toBoard(dbBoard), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Board, error) {
	dbBoards, err := s.store.ListBoardsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	boards := make([]Board, len(dbBoards))
	for i, b := range dbBoards {
		boards[i] = *toBoard(b)
	}
	return boards, nil
}

func (s *Service) Delete(ctx context.Context, boardID, userID string) error {
	if _, err := s.ownedBoard(ctx, boardID, userID); err != nil {
		return err
	}
	return s.store.DeleteBoard(ctx, boardID)
}

func (s *Service) InviteByEmail(ctx context.Context, boardID, ownerID, inviteeEmail string) error {
	if _, err := s.ownedBoard(ctx, boardID, ownerID); err != nil {
		return err
	}

	invitee, err := s.store.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInviteeNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	return s.store.AddBoardMember(ctx, dbgen.AddBoardMemberParams{
		BoardID: boardID,
		UserID:  invitee.ID,
		Role:    dbgen.BoardRoleEditor,
	})
}

func (s *Service) ListMembers(ctx context.Context, boardID, userID string) ([]Member, error) {
	if _, err := s.membership(ctx, boardID, userID); err != nil {
		return nil, err
	}

	rows, err := s.store.ListBoardMembers(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, len(rows))
	for i, m := range rows {
		members[i] = Member{
			UserID:      m.UserID,
			Role:        m.Role,
			DisplayName: m.DisplayName,
			Email:       m.Email,
		}
	}
	return members, nil
}

func (s *Service) RemoveMember(ctx context.Context, boardID, ownerID, targetUserID string) error {
	if _, err := s.ownedBoard(ctx, boardID, ownerID); err != nil {
		return err
	}
	if targetUserID == ownerID {
		return ErrCannotRemoveOwner
	}

	return s.store.RemoveBoardMember(ctx, dbgen.RemoveBoardMemberParams{
		BoardID: boardID,
		UserID:  targetUserID,
	})
}

// CheckMember reports whether userID belongs to the board.
func (s *Service) CheckMember(ctx context.Context, boardID, userID string) error {
	_, err := s.membership(ctx, boardID, userID)
	return err
}

// GetDocument returns the latest snapshot of the board.
func (s *Service) GetDocument(ctx context.Context, boardID, userID string) (*Snapshot, error) {
	if _, err := s.membership(ctx, boardID, userID); err != nil {
		return nil, err
	}

	snap, err := s.latest(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Version: int(snap.Version), Document: snap.Document}, nil
}

// SaveDocument stores data as the board's next version. The document is
// decoded into a canvas first and the canvas's own encoding is stored, so
// only loadable documents are ever persisted. Viewers cannot save.
func (s *Service) SaveDocument(ctx context.Context, boardID, userID string, data []byte) (*Snapshot, error) {
	role, err := s.membership(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	if role == dbgen.BoardRoleViewer {
		return nil, ErrForbidden
	}

	c := canvas.New(0, 0)
	if err := c.LoadFromJSON(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return s.StoreCanvas(ctx, boardID, c)
}

// LoadCanvas decodes the board's latest snapshot without a membership
// check. The collab hub uses it after authorizing the connection.
func (s *Service) LoadCanvas(ctx context.Context, boardID string) (*canvas.Canvas, int, error) {
	snap, err := s.latest(ctx, boardID)
	if err != nil {
		return nil, 0, err
	}
	c := canvas.New(0, 0)
	if err := c.LoadFromJSON(snap.Document); err != nil {
		return nil, 0, fmt.Errorf("load snapshot %s: %w", snap.ID, err)
	}
	return c, int(snap.Version), nil
}

// StoreCanvas writes c as the board's next snapshot.
func (s *Service) StoreCanvas(ctx context.Context, boardID string, c *canvas.Canvas) (*Snapshot, error) {
	docJSON, err := c.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	next := int32(1)
	cur, err := s.store.GetLatestSnapshot(ctx, boardID)
	switch {
	case err == nil:
		next = cur.Version + 1
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	_, err = s.store.CreateSnapshot(ctx, dbgen.CreateSnapshotParams{
		ID:       typeid.NewSnapshotID(),
		BoardID:  boardID,
		Version:  next,
		Document: docJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	err = s.store.TouchBoard(ctx, dbgen.TouchBoardParams{
		ID:     boardID,
		Width:  int32(c.Width()),
		Height: int32(c.Height()),
	})
	if err != nil {
		slog.Warn("touch board", "error", err, "board", boardID)
	}

	return &Snapshot{Version: int(next), Document: docJSON}, nil
}

func (s *Service) memberCanvas(ctx context.Context, boardID, userID string) (*canvas.Canvas, error) {
	if _, err := s.membership(ctx, boardID, userID); err != nil {
		return nil, err
	}
	c, _, err := s.LoadCanvas(ctx, boardID)
	return c, err
}

// Render writes the board's current canvas in format at scale.
func (s *Service) Render(ctx context.Context, w io.Writer, boardID, userID string, format render.Format, scale float64) error {
	c, err := s.memberCanvas(ctx, boardID, userID)
	if err != nil {
		return err
	}
	if s.loader != nil {
		if err := s.loader.Hydrate(ctx, c.Objects()); err != nil {
			return err
		}
	}
	return render.Export(w, c, format, scale)
}

// HitTest returns the innermost shape under (x, y), or nil.
func (s *Service) HitTest(ctx context.Context, boardID, userID string, x, y float64) (*engine.HitTestResult, error) {
	c, err := s.memberCanvas(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	hit := engine.HitTest(engine.BuildSceneGraph(c), x, y)
	if hit == nil {
		return nil, nil
	}
	return &engine.HitTestResult{ObjectID: hit.ID, TopLevel: hit.TopLevel().ID, X: x, Y: y}, nil
}

// Bounds returns the union of the bounding rects of the given objects.
func (s *Service) Bounds(ctx context.Context, boardID, userID string, ids []string) (geom.Rect, error) {
	c, err := s.memberCanvas(ctx, boardID, userID)
	if err != nil {
		return geom.Rect{}, err
	}
	r, ok := c.SelectionBounds(ids...)
	if !ok {
		return geom.Rect{}, ErrNoObjects
	}
	return r, nil
}

func (s *Service) getBoard(ctx context.Context, boardID string) (dbgen.Board, error) {
	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return b, ErrNotFound
		}
		return b, fmt.Errorf("get board: %w", err)
	}
	return b, nil
}

func (s *Service) ownedBoard(ctx context.Context, boardID, userID string) (dbgen.Board, error) {
	b, err := s.getBoard(ctx, boardID)
	if err != nil {
		return b, err
	}
	if b.OwnerID != userID {
		return b, ErrForbidden
	}
	return b, nil
}

func (s *Service) latest(ctx context.Context, boardID string) (dbgen.Snapshot, error) {
	snap, err := s.store.GetLatestSnapshot(ctx, boardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snap, ErrNotFound
		}
		return snap, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

func (s *Service) membership(ctx context.Context, boardID, userID string) (dbgen.BoardRole, error) {
	m, err := s.store.GetBoardMember(ctx, dbgen.GetBoardMemberParams{
		BoardID: boardID,
		UserID:  userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotMember
		}
		return "", fmt.Errorf("check membership: %w", err)
	}
	return m.Role, nil
}

func toBoard(b dbgen.Board) *Board {
	return &Board{
		ID:        b.ID,
		Name:      b.Name,
		OwnerID:   b.OwnerID,
		Width:     int(b.Width),
		Height:    int(b.Height),
		CreatedAt: b.CreatedAt.Time.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Time.Format(time.RFC3339),
	}
}
