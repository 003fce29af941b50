package razed

// NoSlot marks a logical id whose storage has been released. A map entry
// holding NoSlot must never be resolved; scene edits are required to drop
// dependent records before releasing the id they point at.
const NoSlot = ^uint32(0)

// Column is a growable arena keyed by stable logical ids. Rows live in one
// dense slice so a whole pose array can be blitted to the GPU in a single
// write; when compaction moves rows around only the id -> row map changes,
// so consumers keep their logical ids and just read the republished map.
type Column[T any] struct {
	slots  []uint32 // logical id -> dense row, NoSlot when released
	owners []uint32 // dense row -> logical id
	rows   []T
	free   []uint32 // released logical ids, reused by Put
}

func NewColumn[T any](capacity int) *Column[T] {
	return &Column[T]{
		slots:  make([]uint32, 0, capacity),
		owners: make([]uint32, 0, capacity),
		rows:   make([]T, 0, capacity),
		free:   nil,
	}
}

// Put stores a value and returns its logical id. Ids are dense from 0;
// released ids are reused before new ones are minted.
func (c *Column[T]) Put(value T) uint32 {
	row := uint32(len(c.rows))
	c.rows = append(c.rows, value)

	var id uint32
	if n := len(c.free); n > 0 {
		id = c.free[n-1]
		c.free = c.free[:n-1]
		c.slots[id] = row
	} else {
		id = uint32(len(c.slots))
		c.slots = append(c.slots, row)
	}
	c.owners = append(c.owners, id)
	return id
}

// Remove releases a logical id. The dense storage is compacted by moving the
// last row into the hole, so every other id stays valid and only the map
// entry of the moved id changes.
func (c *Column[T]) Remove(id uint32) {
	row := c.slots[id]
	if row == NoSlot {
		return
	}

	last := uint32(len(c.rows) - 1)
	if row != last {
		c.rows[row] = c.rows[last]
		moved := c.owners[last]
		c.owners[row] = moved
		c.slots[moved] = row
	}
	c.rows = c.rows[:last]
	c.owners = c.owners[:last]

	c.slots[id] = NoSlot
	c.free = append(c.free, id)
}

// Lookup resolves a logical id to its dense row.
func (c *Column[T]) Lookup(id uint32) (uint32, bool) {
	if id >= uint32(len(c.slots)) || c.slots[id] == NoSlot {
		return 0, false
	}
	return c.slots[id], true
}

// At returns a pointer to the row behind a logical id. The pointer is valid
// until the next Put or Remove on this column.
func (c *Column[T]) At(id uint32) *T {
	return &c.rows[c.slots[id]]
}

// IndexMap is the indirection map published to resolvers: one entry per
// logical id, value = current dense row. Entries of released ids hold NoSlot.
func (c *Column[T]) IndexMap() []uint32 {
	return c.slots
}

// Rows is the dense pose/POD array, parallel to the values of IndexMap.
func (c *Column[T]) Rows() []T {
	return c.rows
}

// Owners maps each dense row back to the logical id that owns it.
func (c *Column[T]) Owners() []uint32 {
	return c.owners
}

func (c *Column[T]) Len() int {
	return len(c.rows)
}
