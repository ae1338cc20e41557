package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

type slot struct {
	ID              string  `json:"id"`
	Day             string  `json:"day"`
	Period          int     `json:"period"`
	Subject         string  `json:"subject"`
	ClassRoom       string  `json:"class_room"`
	Teacher         string  `json:"teacher"`
	OriginalTeacher *string `json:"original_teacher"`
	AcademicYear    *string `json:"academic_year"`
}

type pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

type envelope struct {
	Data       []slot      `json:"data"`
	Pagination *pagination `json:"pagination"`
}

type violation struct {
	Kind  string
	A     slot
	B     slot
	Actor string
}

func main() {
	var (
		baseURL  string
		prefix   string
		token    string
		timeout  time.Duration
		pageSize int
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API route prefix")
	flag.StringVar(&token, "token", os.Getenv("SCHEDULE_AUDIT_TOKEN"), "Bearer token for the API")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.IntVar(&pageSize, "page-size", 200, "Slots fetched per page")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	slots, err := fetchAllSlots(client, baseURL, prefix, token, pageSize)
	if err != nil {
		log.Fatalf("failed to fetch schedule: %v", err)
	}

	violations := audit(slots)
	printReport(slots, violations)
	if len(violations) > 0 {
		os.Exit(1)
	}
}

func fetchAllSlots(client *http.Client, base, prefix, token string, pageSize int) ([]slot, error) {
	var all []slot
	for page := 1; ; page++ {
		env, err := fetchPage(client, base, prefix, token, page, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, env.Data...)
		if env.Pagination == nil || len(all) >= env.Pagination.TotalCount || len(env.Data) == 0 {
			return all, nil
		}
	}
}

func fetchPage(client *http.Client, base, prefix, token string, page, pageSize int) (*envelope, error) {
	endpoint := strings.TrimRight(base, "/") + prefix + "/schedule"
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(pageSize))
	req.URL.RawQuery = q.Encode()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s page %d: status %d: %s", endpoint, page, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}
	return &env, nil
}

// audit runs the pairwise double-booking rules over the full schedule.
// A teacher must not be booked into two slots at the same day and period;
// a substituted slot books both its substitute and its original teacher.
// A class room must not host two slots at the same day and period. An
// empty academic year is treated as overlapping every year.
func audit(slots []slot) []violation {
	var violations []violation
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i], slots[j]
			if a.Day != b.Day || a.Period != b.Period {
				continue
			}
			if !yearsOverlap(a.AcademicYear, b.AcademicYear) {
				continue
			}
			if shared := sharedTeacher(a, b); shared != "" {
				violations = append(violations, violation{Kind: "TEACHER", A: a, B: b, Actor: shared})
			}
			if a.ClassRoom != "" && a.ClassRoom == b.ClassRoom {
				violations = append(violations, violation{Kind: "ROOM", A: a, B: b, Actor: a.ClassRoom})
			}
		}
	}
	return violations
}

// sharedTeacher returns a teacher booked by both slots, empty when none.
func sharedTeacher(a, b slot) string {
	for _, t := range bookedTeachers(a) {
		for _, u := range bookedTeachers(b) {
			if t == u {
				return t
			}
		}
	}
	return ""
}

func bookedTeachers(s slot) []string {
	teachers := make([]string, 0, 2)
	if s.Teacher != "" {
		teachers = append(teachers, s.Teacher)
	}
	if s.OriginalTeacher != nil && *s.OriginalTeacher != "" && *s.OriginalTeacher != s.Teacher {
		teachers = append(teachers, *s.OriginalTeacher)
	}
	return teachers
}

func yearsOverlap(a, b *string) bool {
	if a == nil || *a == "" || b == nil || *b == "" {
		return true
	}
	return *a == *b
}

func printReport(slots []slot, violations []violation) {
	fmt.Println("Schedule Audit Report")
	fmt.Println("=====================")
	fmt.Printf("Slots checked: %d\n", len(slots))
	for _, v := range violations {
		fmt.Printf("[%s] %s double-booked on %s period %d\n", v.Kind, v.Actor, v.A.Day, v.A.Period)
		fmt.Printf("  %s: %s in %s\n", v.A.ID, v.A.Subject, v.A.ClassRoom)
		fmt.Printf("  %s: %s in %s\n", v.B.ID, v.B.Subject, v.B.ClassRoom)
	}
	fmt.Printf("Violations: %d\n", len(violations))
}
