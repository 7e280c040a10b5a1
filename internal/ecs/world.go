package ecs

import (
	"slices"
	"sort"

	"github.com/kamstrup/intmap"
)

// World is the central entity registry and component store. Entities can be
// arranged in a tree: destroying a parent destroys its whole subtree, the
// way a level's floor takes every placed element with it.
type World struct {
	nextID     EntityID
	alive      *intmap.Map[EntityID, struct{}]
	parent     *intmap.Map[EntityID, EntityID]
	children   map[EntityID][]EntityID
	components map[ComponentType]map[EntityID]Component
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{
		nextID:     1,
		alive:      intmap.New[EntityID, struct{}](64),
		parent:     intmap.New[EntityID, EntityID](64),
		children:   make(map[EntityID][]EntityID),
		components: make(map[ComponentType]map[EntityID]Component),
	}
}

// CreateEntity mints a new root entity ID and marks it alive.
func (w *World) CreateEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.alive.Put(id, struct{}{})
	return id
}

// CreateChild mints a new entity attached under parent.
func (w *World) CreateChild(parent EntityID) EntityID {
	id := w.CreateEntity()
	w.SetParent(id, parent)
	return id
}

// DestroyEntity removes the entity, its components, and all of its
// descendants. Destroying a dead entity is a no-op.
func (w *World) DestroyEntity(id EntityID) {
	if !w.Alive(id) {
		return
	}
	for _, child := range slices.Clone(w.children[id]) {
		w.DestroyEntity(child)
	}
	w.detach(id)
	delete(w.children, id)
	w.alive.Del(id)
	for _, store := range w.components {
		delete(store, id)
	}
}

// Alive reports whether the entity is alive.
func (w *World) Alive(id EntityID) bool {
	_, ok := w.alive.Get(id)
	return ok
}

// Count returns the number of live entities.
func (w *World) Count() int {
	return w.alive.Len()
}

// SetParent moves child under parent. NilEntity makes child a root.
// Attaching an entity under itself or one of its descendants is ignored.
func (w *World) SetParent(child, parent EntityID) {
	if !w.Alive(child) {
		return
	}
	if parent != NilEntity && (!w.Alive(parent) || w.IsAncestor(child, parent)) {
		return
	}
	w.detach(child)
	if parent == NilEntity {
		return
	}
	w.parent.Put(child, parent)
	w.children[parent] = append(w.children[parent], child)
}

// Parent returns the parent of id, or NilEntity for roots.
func (w *World) Parent(id EntityID) EntityID {
	p, _ := w.parent.Get(id)
	return p
}

// Children returns the direct children of id in attachment order.
func (w *World) Children(id EntityID) []EntityID {
	return slices.Clone(w.children[id])
}

// Descendants returns every entity below id, depth first.
func (w *World) Descendants(id EntityID) []EntityID {
	var out []EntityID
	for _, c := range w.children[id] {
		out = append(out, c)
		out = append(out, w.Descendants(c)...)
	}
	return out
}

// IsAncestor reports whether anc is id itself or lies on id's parent chain.
func (w *World) IsAncestor(anc, id EntityID) bool {
	for cur := id; cur != NilEntity; cur = w.Parent(cur) {
		if cur == anc {
			return true
		}
	}
	return false
}

func (w *World) detach(id EntityID) {
	p, ok := w.parent.Get(id)
	if !ok {
		return
	}
	w.parent.Del(id)
	siblings := w.children[p]
	if i := slices.Index(siblings, id); i >= 0 {
		w.children[p] = slices.Delete(siblings, i, i+1)
	}
}

// Add attaches a component to an entity, replacing one of the same type.
func (w *World) Add(id EntityID, c Component) {
	t := c.Type()
	if w.components[t] == nil {
		w.components[t] = make(map[EntityID]Component)
	}
	w.components[t][id] = c
}

// Get returns the component of the given type for entity id, or nil.
func (w *World) Get(id EntityID, t ComponentType) Component {
	store := w.components[t]
	if store == nil {
		return nil
	}
	return store[id]
}

// Remove detaches a component from an entity.
func (w *World) Remove(id EntityID, t ComponentType) {
	if store := w.components[t]; store != nil {
		delete(store, id)
	}
}

// Has reports whether entity id has a component of the given type.
func (w *World) Has(id EntityID, t ComponentType) bool {
	return w.Get(id, t) != nil
}

// Query returns all alive entities that have every listed component type,
// sorted by ID so callers iterate in creation order.
func (w *World) Query(types ...ComponentType) []EntityID {
	if len(types) == 0 {
		return nil
	}
	// Use the smallest store as the candidate set.
	smallest := types[0]
	for _, t := range types[1:] {
		if len(w.components[t]) < len(w.components[smallest]) {
			smallest = t
		}
	}
	store := w.components[smallest]
	if store == nil {
		return nil
	}
	var result []EntityID
	for id := range store {
		if !w.Alive(id) {
			continue
		}
		match := true
		for _, t := range types {
			if t == smallest {
				continue
			}
			if !w.Has(id, t) {
				match = false
				break
			}
		}
		if match {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// QueryUnder is Query restricted to the subtree below root, sorted by ID.
func (w *World) QueryUnder(root EntityID, types ...ComponentType) []EntityID {
	if len(types) == 0 {
		return nil
	}
	var result []EntityID
	for _, id := range w.Descendants(root) {
		if !w.Alive(id) {
			continue
		}
		match := true
		for _, t := range types {
			if !w.Has(id, t) {
				match = false
				break
			}
		}
		if match {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
