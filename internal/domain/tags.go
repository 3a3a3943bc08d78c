package domain

// Variant identifies the kind of round that was played.
type Variant string

const (
	// VariantTeam is a regular round with two declared sides (Re vs Kontra).
	VariantTeam Variant = "team"
	// VariantSolo is a round with a single player against the rest.
	VariantSolo Variant = "solo"
)

// Side identifies the winning party of a round.
type Side string

const (
	SideRe      Side = "re"
	SideKontra  Side = "kontra"
	SideSoloist Side = "soloist"
	SideOthers  Side = "others"
)

// Announcement tags. Each announcement made before play doubles the round value.
const (
	TagRe      = "Re"
	TagKontra  = "Kontra"
	TagKeine90 = "Keine 90"
	TagKeine60 = "Keine 60"
	TagKeine30 = "Keine 30"
)

// Special event tags. Each adds one flat point to the round value, except
// Herz-Rundlauf which only triggers bock rounds.
const (
	TagFuchs        = "Fuchs"
	TagKarlchen     = "Karlchen"
	TagDoppelkopf   = "Doppelkopf"
	TagSchwarz      = "Schwarz"
	TagHerzRundlauf = "Herz-Rundlauf"
)

// AnnouncementTags is the fixed set of selectable announcements, in display order.
var AnnouncementTags = []string{TagRe, TagKontra, TagKeine90, TagKeine60, TagKeine30}

// SpecialTags is the fixed set of selectable special events, in display order.
var SpecialTags = []string{TagFuchs, TagKarlchen, TagDoppelkopf, TagKeine90, TagKeine60, TagKeine30, TagSchwarz, TagHerzRundlauf}

// IsAnnouncementTag reports whether tag belongs to the announcement set.
func IsAnnouncementTag(tag string) bool {
	return containsTag(AnnouncementTags, tag)
}

// IsSpecialTag reports whether tag belongs to the special event set.
func IsSpecialTag(tag string) bool {
	return containsTag(SpecialTags, tag)
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
