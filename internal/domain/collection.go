package domain

// Collection is an ordered, flat list of cards.
type Collection = []Card

// Collection file names.
const (
	CollectionInbox     = "inbox.json"
	CollectionPublished = "today-cards.json"
)

// CollectionFile maps a short collection name ("inbox", "published") to its
// file name. Unknown names are returned unchanged.
func CollectionFile(name string) string {
	switch name {
	case "inbox":
		return CollectionInbox
	case "published", "today", "today-cards":
		return CollectionPublished
	default:
		return name
	}
}
