package render

import (
	"github.com/dshills/keel/internal/state"
)

type placed struct {
	pos   Point
	chunk *Chunk
	order int
}

type chunkPos struct {
	layer int
	index int
}

// Chunks is the registry-held collection of render chunks, organized as
// ascending z-layers. Chunks are addressed by a marker type, which gives
// systems a type-safe handle.
type Chunks struct {
	layers  [][]placed
	index   map[state.Key]chunkPos
	counter int
}

// NewChunks returns an empty collection.
func NewChunks() *Chunks {
	return &Chunks{index: make(map[state.Key]chunkPos)}
}

// Clear drops every registered chunk.
func (cs *Chunks) Clear() {
	cs.layers = nil
	cs.index = make(map[state.Key]chunkPos)
	cs.counter = 0
}

// Register allocates a chunk for marker type C at a z-layer, position and
// size. Re-registering replaces the chunk (used on terminal resize) while
// keeping its layer slot.
func Register[C any](cs *Chunks, z int, pos Point, w, h int) *Chunk {
	for len(cs.layers) <= z {
		cs.layers = append(cs.layers, nil)
	}

	ch := NewChunk(w, h)
	k := state.KeyOf[C]()
	if at, ok := cs.index[k]; ok {
		cs.layers[at.layer][at.index] = placed{
			pos: pos, chunk: ch, order: cs.layers[at.layer][at.index].order,
		}
		return ch
	}

	cs.counter++
	cs.layers[z] = append(cs.layers[z], placed{pos: pos, chunk: ch, order: cs.counter})
	cs.index[k] = chunkPos{layer: z, index: len(cs.layers[z]) - 1}
	return ch
}

// Get returns the chunk registered for marker type C, or nil.
func Get[C any](cs *Chunks) *Chunk {
	at, ok := cs.index[state.KeyOf[C]()]
	if !ok {
		return nil
	}
	return cs.layers[at.layer][at.index].chunk
}

// ClearAll resets the contents of every chunk without dropping
// registrations. Called at the top of the render hook.
func (cs *Chunks) ClearAll() {
	for _, layer := range cs.layers {
		for _, p := range layer {
			p.chunk.Clear()
		}
	}
}

// Composite flattens all chunks onto the framebuffer: layers in
// ascending z order, non-sentinel cells copied at the chunk's position,
// clipped to the framebuffer. Deferred draw items run afterwards so they
// observe the composited result, and the winning cursor claim — highest
// priority, ties to the higher layer, then to the earlier registration —
// is applied last.
func (cs *Chunks) Composite(fb Framebuffer) {
	fw, fh := fb.Size()

	var best *CursorReq
	var bestPos Point
	bestLayer, bestOrder := -1, 0

	for z, layer := range cs.layers {
		for _, p := range layer {
			size := p.chunk.size
			for y := 0; y < size.Y; y++ {
				ty := p.pos.Y + y
				if ty < 0 || ty >= fh {
					continue
				}
				for x := 0; x < size.X; x++ {
					tx := p.pos.X + x
					if tx < 0 || tx >= fw {
						continue
					}
					cell := p.chunk.cells[y*size.X+x]
					if cell.Rune == 0 {
						continue
					}
					fb.SetCell(tx, ty, cell)
				}
			}

			if req := p.chunk.cursor; req != nil {
				better := best == nil ||
					req.Priority > best.Priority ||
					(req.Priority == best.Priority && z > bestLayer) ||
					(req.Priority == best.Priority && z == bestLayer && p.order < bestOrder)
				if better {
					best = req
					bestPos = p.pos.Add(req.Pos)
					bestLayer, bestOrder = z, p.order
				}
			}
		}
	}

	for _, layer := range cs.layers {
		for _, p := range layer {
			for _, d := range p.chunk.deferred {
				d.fn(fb, p.pos.Add(d.pos))
			}
		}
	}

	if best == nil || best.Shape == CursorHidden {
		fb.HideCursor()
		return
	}
	fb.SetCursor(bestPos.X, bestPos.Y, best.Shape)
}

// In borrows the chunk registered for marker type C mutably. Get returns
// nil when no such chunk is registered, which systems must tolerate.
type In[C any] struct {
	chunk *Chunk
}

// ParamDesc implements state.Param.
func (In[C]) ParamDesc() state.Desc {
	return state.Desc{Key: state.KeyOf[C](), Write: true}
}

// Bind implements state.Param.
func (In[C]) Bind(r *state.Registry) state.Param {
	cs, ok := state.Peek[Chunks](r)
	if !ok {
		return In[C]{}
	}
	return In[C]{chunk: Get[C](cs)}
}

// Get returns the bound chunk, or nil.
func (p In[C]) Get() *Chunk {
	return p.chunk
}
