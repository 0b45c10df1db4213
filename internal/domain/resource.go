package domain

import "time"

// ResourceKind names a province sub-resource type.
type ResourceKind string

const (
	KindEthnicGroup         ResourceKind = "ethnic_group"
	KindFood                ResourceKind = "food"
	KindFunfact             ResourceKind = "funfact"
	KindLanguage            ResourceKind = "language"
	KindTourismItem         ResourceKind = "tourism_item"
	KindTraditionalClothing ResourceKind = "traditional_clothing"
)

// Slot is a named asset position on a resource.
type Slot string

const (
	SlotImage    Slot = "image"
	SlotPhoto    Slot = "photo"
	SlotDocument Slot = "document"
)

var kindSlots = map[ResourceKind][]Slot{
	KindEthnicGroup:         {SlotImage},
	KindFood:                {SlotImage},
	KindFunfact:             {SlotImage},
	KindLanguage:            {SlotImage, SlotDocument},
	KindTourismItem:         {SlotImage, SlotPhoto},
	KindTraditionalClothing: {SlotImage, SlotPhoto},
}

// Valid reports whether k is a known resource kind.
func (k ResourceKind) Valid() bool {
	_, ok := kindSlots[k]
	return ok
}

// Slots lists the asset slots a kind exposes.
func (k ResourceKind) Slots() []Slot {
	return kindSlots[k]
}

// AllowsSlot reports whether s can be set on resources of kind k.
func (k ResourceKind) AllowsSlot(s Slot) bool {
	for _, allowed := range kindSlots[k] {
		if allowed == s {
			return true
		}
	}
	return false
}

// Province is the owner of all cultural resources.
type Province struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// AssetReference points from a resource slot to an object in the object store.
type AssetReference struct {
	URL         string    `json:"url"`
	Path        string    `json:"path"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Resource is a typed cultural record belonging to one province.
type Resource struct {
	ID           string                  `json:"id"`
	ProvinceSlug string                  `json:"provinceSlug"`
	Kind         ResourceKind            `json:"kind"`
	Name         string                  `json:"name"`
	Fields       map[string]string       `json:"fields,omitempty"`
	Assets       map[Slot]AssetReference `json:"assets"`
	CreatedAt    time.Time               `json:"createdAt"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

// Asset returns the reference stored in slot, if any.
func (r Resource) Asset(slot Slot) (AssetReference, bool) {
	ref, ok := r.Assets[slot]
	return ref, ok
}

// Blob is an upload candidate for a resource slot.
type Blob struct {
	Filename string
	Data     []byte
}
