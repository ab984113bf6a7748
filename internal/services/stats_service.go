package services

import (
	"fmt"
	"io"
	"sort"

	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/pkg/errors"
	"github.com/xuri/excelize/v2"
)

type StatsService struct {
	matches *MatchService
	rooms   *RoomService
}

func NewStatsService(matches *MatchService, rooms *RoomService) *StatsService {
	return &StatsService{matches: matches, rooms: rooms}
}

// Stats counts waiting requests and grouped members as participants.
func (s *StatsService) Stats() *models.Stats {
	waiting := s.matches.Waiting()
	groups := s.matches.ListGroups()

	stats := &models.Stats{
		WaitingUsers: len(waiting),
		TotalGroups:  len(groups),
		TotalRooms:   s.rooms.Count(),
		MenuStats:    make(map[string]int),
		TimeStats:    make(map[string]int),
	}

	count := func(req models.MatchRequest) {
		stats.TotalParticipants++
		stats.MenuStats[string(req.Menu)]++
		stats.TimeStats[string(req.TimeSlot)]++
	}
	for _, req := range waiting {
		count(req)
	}
	for _, g := range groups {
		for _, m := range g.Members {
			count(m)
		}
	}
	return stats
}

const (
	summarySheet = "Summary"
	groupsSheet  = "Groups"
	roomsSheet   = "Rooms"
)

// ExportXLSX writes a workbook with the summary, group and room listings.
func (s *StatsService) ExportXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to prepare workbook")
	}
	for _, name := range []string{groupsSheet, roomsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to prepare workbook")
		}
	}

	stats := s.Stats()
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total participants", stats.TotalParticipants},
		{"Waiting users", stats.WaitingUsers},
		{"Total groups", stats.TotalGroups},
		{"Total rooms", stats.TotalRooms},
	}
	for _, k := range sortedKeys(stats.MenuStats) {
		rows = append(rows, []interface{}{"Menu: " + k, stats.MenuStats[k]})
	}
	for _, k := range sortedKeys(stats.TimeStats) {
		rows = append(rows, []interface{}{"Time: " + k, stats.TimeStats[k]})
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Group ID", "Time", "Price", "Menu", "Members", "Restaurant", "Relaxation", "Created"}}
	for _, g := range s.matches.ListGroups() {
		rows = append(rows, []interface{}{
			g.ID, string(g.TimeSlot), string(g.PriceRange), string(g.Menu),
			len(g.Members), g.Restaurant.Name, g.RelaxationLevel, g.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	if err := writeRows(f, groupsSheet, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Room ID", "Title", "Time", "Menu", "Members", "Capacity", "Status"}}
	for _, r := range s.rooms.ListActive() {
		rows = append(rows, []interface{}{
			r.ID, r.Title, string(r.TimeSlot), string(r.Menu), len(r.Members), r.MaxCount, string(r.Status),
		})
	}
	if err := writeRows(f, roomsSheet, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to write workbook")
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "invalid cell")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, fmt.Sprintf("failed to write %s row %d", sheet, i+1))
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
