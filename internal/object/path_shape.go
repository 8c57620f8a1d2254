package object

import (
	"fmt"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

// Path is a shape drawn from path commands. Commands are stored normalized
// (absolute M, L, C, Q, Z) in their original coordinates; the box is their
// exact bounds.
type Path struct {
	Object
	commands []PathCommand
	bounds   geom.Rect
}

func NewPath(cmds []PathCommand, opts ...Option) (*Path, error) {
	p := &Path{}
	p.init(p, TypePath)
	if err := p.setCommands(cmds); err != nil {
		return nil, err
	}
	p.apply(opts)
	return p, nil
}

func (p *Path) setCommands(cmds []PathCommand) error {
	norm, err := NormalizePath(cmds)
	if err != nil {
		return fmt.Errorf("new path: %w", err)
	}
	p.commands = norm
	p.bounds = PathBounds(norm)
	p.t.Width, p.t.Height = p.bounds.Width, p.bounds.Height
	p.t.Left, p.t.Top = p.bounds.X, p.bounds.Y
	return nil
}

// Commands returns a copy of the normalized commands.
func (p *Path) Commands() []PathCommand {
	return mapPath(p.commands, func(pt geom.Point) geom.Point { return pt })
}

// PathOffset is the center of the commands' bounds.
func (p *Path) PathOffset() geom.Point {
	return p.bounds.Center()
}

func (p *Path) Complexity() int { return len(p.commands) }

func (p *Path) Outline() []PathCommand {
	return mapPath(p.commands, boxMapper(p.bounds, p.t.Width, p.t.Height))
}

func (p *Path) ContainsPoint(pt geom.Point) bool {
	return p.containsOutline(pt)
}

func (p *Path) ToObject(include ...Field) Record {
	rec := p.baseRecord(include)
	rec["path"] = pathToRecord(p.commands)
	return rec
}

func pathFromObject(rd *recordReader) (Shape, error) {
	rd.require("path")
	raw, _ := rd.list("path")
	if rd.err != nil {
		return nil, rd.err
	}
	cmds, err := pathFromRecord(raw)
	if err != nil {
		return nil, err
	}

	p := &Path{}
	p.init(p, TypePath)
	if err := p.setCommands(cmds); err != nil {
		return nil, err
	}
	p.decodeBase(rd)
	if rd.err != nil {
		return nil, rd.err
	}
	p.finish()
	return p, nil
}
