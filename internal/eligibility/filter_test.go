package eligibility

import (
	"testing"

	"placementcell/internal/domain/student"
)

func TestFilterStudents(t *testing.T) {
	students := []student.Student{
		{ID: "1", Name: "Asha Rao", RollNo: "NF001", Branch: "CS", Year: 2, CGPA: 8.2, Backlogs: 0, IsVerified: true},
		{ID: "2", Name: "Bilal Khan", RollNo: "NF002", Branch: "Cyber", Year: 3, CGPA: 6.9, Backlogs: 2},
		{ID: "3", Name: "Chen Li", RollNo: "NF003", Branch: "CS", Year: 3, CGPA: 9.1, Backlogs: 1, IsVerified: true, IsBlacklisted: true},
	}
	minCGPA := 7.0
	maxBacklogs := 1

	cases := []struct {
		name   string
		filter StudentFilter
		want   []string
	}{
		{"empty filter", StudentFilter{}, []string{"1", "2", "3"}},
		{"search by roll no", StudentFilter{Search: "nf002"}, []string{"2"}},
		{"cgpa floor", StudentFilter{MinCGPA: &minCGPA}, []string{"1", "3"}},
		{"backlog ceiling", StudentFilter{MaxBacklogs: &maxBacklogs}, []string{"1", "3"}},
		{"branch and year", StudentFilter{Branches: []string{"CS"}, Years: []int{3}}, []string{"3"}},
		{"unverified", StudentFilter{Verification: VerificationUnverified}, []string{"2"}},
		{"active only", StudentFilter{Blacklist: BlacklistActive}, []string{"1", "2"}},
		{"blacklisted only", StudentFilter{Blacklist: BlacklistBlacklisted}, []string{"3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterStudents(students, tc.filter)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d students, want %d", len(got), len(tc.want))
			}
			for i, s := range got {
				if string(s.ID) != tc.want[i] {
					t.Fatalf("position %d: got %s, want %s", i, s.ID, tc.want[i])
				}
			}
		})
	}
}
