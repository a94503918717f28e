// Package series reconstructs series → season → episode hierarchies
// from a flat catalog item list, preferring authoritative playlist
// ordering over title-derived ordering wherever both exist.
package series

import (
	"sort"

	"github.com/lumetv/lume/internal/domain"
)

// Result is the organizer's output. Organize is a pure function:
// identical inputs always produce a deep-equal Result.
type Result struct {
	// Series maps series key to its aggregated seasons.
	Series map[string]*domain.SeriesInfo

	// NonSeriesContent holds every item that was not routed into series
	// processing, in its original relative order.
	NonSeriesContent []domain.ContentItem

	// Unclassified holds series-tagged items that could not be placed:
	// unparseable titles with no playlist entry, and parsed items
	// shadowed by an authoritative playlist season. Nothing is dropped
	// silently.
	Unclassified []domain.ContentItem
}

// Organize routes items into series hierarchies. An item enters series
// processing only when its tag set carries exactly one base category
// tag and that tag is "series"; everything else passes through to
// NonSeriesContent untouched.
//
// Seasons backed by a playlist use the playlist's position order, which
// overrides any episode number parsed from titles, even when the two
// disagree. Remaining items fall back to title parsing.
func Organize(items []domain.ContentItem, playlists []domain.Playlist) Result {
	res := Result{Series: make(map[string]*domain.SeriesInfo)}

	var seriesItems []domain.ContentItem
	byClaim := make(map[string]domain.ContentItem)
	for _, item := range items {
		if !item.IsSeries() {
			res.NonSeriesContent = append(res.NonSeriesContent, item)
			continue
		}
		seriesItems = append(seriesItems, item)
		if _, dup := byClaim[item.ClaimID]; !dup {
			byClaim[item.ClaimID] = item
		}
	}

	consumed := make(map[string]bool)               // claim ids placed by a playlist
	authoritative := make(map[string]map[int]bool)  // series key -> season numbers backed by playlists
	orderedKeys := make([]string, 0, len(playlists)) // first-seen series key order

	for _, pl := range playlists {
		key, season, episodes := buildPlaylistSeason(pl, byClaim)
		if key == "" {
			continue
		}
		if authoritative[key] == nil {
			authoritative[key] = make(map[int]bool)
		}
		if authoritative[key][season.Number] {
			// A playlist already claimed this season; first one wins.
			continue
		}
		authoritative[key][season.Number] = true

		info := res.Series[key]
		if info == nil {
			info = &domain.SeriesInfo{SeriesKey: key, Title: seriesTitleFromPlaylist(pl)}
			res.Series[key] = info
			orderedKeys = append(orderedKeys, key)
		}
		info.Seasons = append(info.Seasons, season)
		for _, ep := range episodes {
			consumed[ep] = true
		}
	}

	// Inferred pass: group what the playlists did not claim.
	type inferredEpisode struct {
		parsed ParsedTitle
		item   domain.ContentItem
	}
	inferred := make(map[string]map[int][]inferredEpisode)

	for _, item := range seriesItems {
		if consumed[item.ClaimID] {
			continue
		}
		parsed, ok := ParseTitle(item.Title)
		if !ok {
			res.Unclassified = append(res.Unclassified, item)
			continue
		}
		key := parsed.SeriesKey()
		if authoritative[key] != nil && authoritative[key][parsed.Season] {
			// The playlist for this season is authoritative; surface the
			// stray item rather than merging behind its ordering.
			res.Unclassified = append(res.Unclassified, item)
			continue
		}
		if inferred[key] == nil {
			inferred[key] = make(map[int][]inferredEpisode)
		}
		inferred[key][parsed.Season] = append(inferred[key][parsed.Season], inferredEpisode{parsed: parsed, item: item})
	}

	inferredKeys := make([]string, 0, len(inferred))
	for key := range inferred {
		inferredKeys = append(inferredKeys, key)
	}
	sort.Strings(inferredKeys)

	for _, key := range inferredKeys {
		info := res.Series[key]
		if info == nil {
			info = &domain.SeriesInfo{SeriesKey: key}
			res.Series[key] = info
			orderedKeys = append(orderedKeys, key)
		}

		seasonNums := make([]int, 0, len(inferred[key]))
		for num := range inferred[key] {
			seasonNums = append(seasonNums, num)
		}
		sort.Ints(seasonNums)

		for _, num := range seasonNums {
			group := inferred[key][num]
			sort.Slice(group, func(i, j int) bool {
				if group[i].parsed.Episode != group[j].parsed.Episode {
					return group[i].parsed.Episode < group[j].parsed.Episode
				}
				return group[i].item.ClaimID < group[j].item.ClaimID
			})

			season := domain.Season{Number: num, Inferred: true}
			for _, ie := range group {
				season.Episodes = append(season.Episodes, domain.Episode{
					ClaimID:       ie.item.ClaimID,
					Title:         ie.item.Title,
					EpisodeNumber: ie.parsed.Episode,
					SeasonNumber:  num,
					Duration:      ie.item.Duration,
				})
			}
			info.Seasons = append(info.Seasons, season)

			if info.Title == "" && len(group) > 0 {
				info.Title = group[0].parsed.Series
			}
		}
	}

	// Final ordering and totals; always recomputed, never incremental.
	for _, key := range orderedKeys {
		info := res.Series[key]
		sort.Slice(info.Seasons, func(i, j int) bool {
			return info.Seasons[i].Number < info.Seasons[j].Number
		})
		total := 0
		for _, s := range info.Seasons {
			total += len(s.Episodes)
		}
		info.TotalEpisodes = total
	}

	return res
}

// buildPlaylistSeason converts one playlist into an authoritative
// season. Entries referencing claims that were not fetched (or are not
// series content) are skipped rather than aborting the whole organize.
// Returns an empty key for playlists that cannot anchor a series.
func buildPlaylistSeason(pl domain.Playlist, byClaim map[string]domain.ContentItem) (string, domain.Season, []string) {
	key := NormalizeKey(pl.SeriesKey)
	if key == "" {
		if parsed, ok := ParseTitle(pl.Title); ok {
			key = parsed.SeriesKey()
		} else {
			key = NormalizeKey(pl.Title)
		}
	}
	if key == "" {
		return "", domain.Season{}, nil
	}

	number := pl.SeasonNumber
	if number <= 0 {
		number = 1
	}

	entries := make([]domain.PlaylistItem, len(pl.Items))
	copy(entries, pl.Items)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})

	season := domain.Season{Number: number, PlaylistID: pl.ID}
	var placed []string
	for _, entry := range entries {
		item, ok := byClaim[entry.ClaimID]
		if !ok {
			continue
		}
		epNum := entry.EpisodeNumber
		if epNum <= 0 {
			epNum = entry.Position + 1
		}
		season.Episodes = append(season.Episodes, domain.Episode{
			ClaimID:       item.ClaimID,
			Title:         item.Title,
			EpisodeNumber: epNum,
			SeasonNumber:  number,
			Duration:      item.Duration,
		})
		placed = append(placed, item.ClaimID)
	}

	return key, season, placed
}

// seriesTitleFromPlaylist picks a display title for a series anchored
// by a playlist.
func seriesTitleFromPlaylist(pl domain.Playlist) string {
	if parsed, ok := ParseTitle(pl.Title); ok {
		return parsed.Series
	}
	return pl.Title
}
