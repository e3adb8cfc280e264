package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"placementcell/internal/domain/student"
)

var rosterColumns = []string{"name", "email", "roll_no", "course", "branch", "year", "cgpa", "backlogs", "phone", "skills"}

// parseRoster reads a header row followed by one student per line. Columns
// are matched by name in any order; name and email are required. Skills are
// separated by semicolons.
func parseRoster(reader *csv.Reader) ([]student.Student, error) {
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("roster is empty")
		}
		return nil, fmt.Errorf("read roster header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, column := range header {
		index[strings.ToLower(strings.TrimSpace(column))] = i
	}
	for _, required := range []string{"name", "email"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("roster header is missing %q", required)
		}
	}
	custom := make(map[string]int)
	for column, i := range index {
		if column != "" && !isRosterColumn(column) {
			custom[column] = i
		}
	}

	var rows []student.Student
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster line %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		row := student.Student{
			Name:   field("name"),
			Email:  field("email"),
			RollNo: field("roll_no"),
			Course: field("course"),
			Branch: field("branch"),
			Phone:  field("phone"),
			Skills: splitSkills(field("skills")),
		}
		if row.Year, err = atoiOrZero(field("year")); err != nil {
			return nil, fmt.Errorf("roster line %d: year: %w", line, err)
		}
		if row.Backlogs, err = atoiOrZero(field("backlogs")); err != nil {
			return nil, fmt.Errorf("roster line %d: backlogs: %w", line, err)
		}
		if value := field("cgpa"); value != "" {
			if row.CGPA, err = strconv.ParseFloat(value, 64); err != nil {
				return nil, fmt.Errorf("roster line %d: cgpa: %w", line, err)
			}
		}
		for column, i := range custom {
			if i < len(record) && strings.TrimSpace(record[i]) != "" {
				if row.CustomFields == nil {
					row.CustomFields = make(map[string]string)
				}
				row.CustomFields[column] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isRosterColumn(name string) bool {
	for _, column := range rosterColumns {
		if column == name {
			return true
		}
	}
	return false
}

func atoiOrZero(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func splitSkills(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ";")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			skills = append(skills, part)
		}
	}
	return skills
}
