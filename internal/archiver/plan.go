package archiver

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-flow/internal/notes"
)

// Category is an archived file family. It doubles as the subfolder name under
// the archive root.
type Category string

const (
	CategoryTranscriptions Category = "transcriptions"
	CategorySummaries      Category = "summaries"
	CategoryAudio          Category = "audio"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryTranscriptions, CategorySummaries, CategoryAudio}

// Entry is one active file found by a scan. Ext is lower-cased, so a .docx
// summary never counts as a duplicate of the .txt from the same run.
type Entry struct {
	Path     string
	Name     string
	Category Category
	Base     string
	Stamp    string
	Ext      string
	ModTime  time.Time
}

// Bucket is the "YYYY-MM" archive subfolder, taken from the modification time.
func (e Entry) Bucket() string {
	return e.ModTime.Format("2006-01")
}

// Move relocates one entry into the archive.
type Move struct {
	Entry  Entry
	Target string
	Reason string
}

// Plan is an ordered list of moves.
type Plan struct {
	Moves []Move
}

// DuplicateGroup is every active file of a category sharing a base name.
type DuplicateGroup struct {
	Category Category
	Base     string
	Ext      string
	Entries  []Entry
}

// NewEntry builds an Entry from a file name and its modification time.
func NewEntry(path string, cat Category, modTime time.Time) Entry {
	name := filepath.Base(path)
	base, stamp, _ := notes.ParseName(name)
	return Entry{
		Path:     path,
		Name:     name,
		Category: cat,
		Base:     base,
		Stamp:    stamp,
		Ext:      strings.ToLower(filepath.Ext(name)),
		ModTime:  modTime,
	}
}

// Target is where e lands under root.
func Target(root string, e Entry) string {
	return filepath.Join(root, string(e.Category), e.Bucket(), e.Name)
}

// GroupDuplicates groups entries by (category, base, extension) and keeps
// groups with more than one member. Groups are sorted by base, category and
// extension, members by name.
func GroupDuplicates(entries []Entry) []DuplicateGroup {
	type key struct {
		cat  Category
		base string
		ext  string
	}

	byKey := make(map[key][]Entry)
	for _, e := range entries {
		k := key{e.Category, e.Base, e.Ext}
		byKey[k] = append(byKey[k], e)
	}

	var groups []DuplicateGroup
	for k, members := range byKey {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		groups = append(groups, DuplicateGroup{Category: k.cat, Base: k.base, Ext: k.ext, Entries: members})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Base != groups[j].Base {
			return groups[i].Base < groups[j].Base
		}
		if groups[i].Category != groups[j].Category {
			return categoryIndex(groups[i].Category) < categoryIndex(groups[j].Category)
		}
		return groups[i].Ext < groups[j].Ext
	})
	return groups
}

// Latest returns the member kept when a group is deduplicated: the newest
// stamp, then the newest modification time, then the greatest name.
func Latest(members []Entry) Entry {
	best := members[0]
	for _, e := range members[1:] {
		if newer(e, best) {
			best = e
		}
	}
	return best
}

func newer(a, b Entry) bool {
	sa, sb := notes.NormalizeStamp(a.Stamp), notes.NormalizeStamp(b.Stamp)
	if sa != sb {
		return sa > sb
	}
	if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.After(b.ModTime)
	}
	return a.Name > b.Name
}

// PlanDuplicateMoves archives every member of each group except the latest.
func PlanDuplicateMoves(groups []DuplicateGroup, root string) Plan {
	var plan Plan
	for _, g := range groups {
		keep := Latest(g.Entries)
		for _, e := range g.Entries {
			if e.Path == keep.Path {
				continue
			}
			plan.Moves = append(plan.Moves, Move{
				Entry:  e,
				Target: Target(root, e),
				Reason: "duplicate of " + keep.Name,
			})
		}
	}
	return plan
}

// PlanOlderThan archives entries of the given categories whose modification
// time is more than days before now.
func PlanOlderThan(entries []Entry, root string, now time.Time, days int, cats ...Category) Plan {
	cutoff := now.AddDate(0, 0, -days)

	var plan Plan
	for _, e := range entries {
		if !hasCategory(cats, e.Category) || !e.ModTime.Before(cutoff) {
			continue
		}
		plan.Moves = append(plan.Moves, Move{
			Entry:  e,
			Target: Target(root, e),
			Reason: "older than " + strconv.Itoa(days) + " days",
		})
	}

	sort.Slice(plan.Moves, func(i, j int) bool {
		a, b := plan.Moves[i].Entry, plan.Moves[j].Entry
		if a.Category != b.Category {
			return categoryIndex(a.Category) < categoryIndex(b.Category)
		}
		return a.Name < b.Name
	})
	return plan
}

func hasCategory(cats []Category, c Category) bool {
	for _, x := range cats {
		if x == c {
			return true
		}
	}
	return false
}

func categoryIndex(c Category) int {
	for i, x := range Categories {
		if x == c {
			return i
		}
	}
	return len(Categories)
}
