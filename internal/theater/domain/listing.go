package domain

// ShowRow is one running show joined with its theater and screen.
type ShowRow struct {
	Theater Theater    `db:"theater"`
	Screen  Screen     `db:"screen"`
	Show    ShowTiming `db:"show"`
}

// TheaterShows is a theater with the screens showing a movie.
type TheaterShows struct {
	Theater
	Screens []ScreenShows `json:"screens"`
}

// ScreenShows is a screen with its show timings for a movie.
type ScreenShows struct {
	Screen
	ShowTimings []ShowTiming `json:"show_timings"`
}

// GroupShows nests rows as theaters, then screens, then show timings. Theaters and screens
// appear in the order of their first row, so rows sorted by start time give each screen's
// timings in start order and list the theater with the earliest show first.
func GroupShows(rows []ShowRow) []TheaterShows {
	out := []TheaterShows{}
	theaterAt := map[int64]int{}
	screenAt := map[int64]int{}
	for _, r := range rows {
		ti, ok := theaterAt[r.Theater.ID]
		if !ok {
			ti = len(out)
			theaterAt[r.Theater.ID] = ti
			out = append(out, TheaterShows{Theater: r.Theater, Screens: []ScreenShows{}})
		}
		t := &out[ti]
		si, ok := screenAt[r.Screen.ID]
		if !ok {
			si = len(t.Screens)
			screenAt[r.Screen.ID] = si
			t.Screens = append(t.Screens, ScreenShows{Screen: r.Screen})
		}
		t.Screens[si].ShowTimings = append(t.Screens[si].ShowTimings, r.Show)
	}
	return out
}
