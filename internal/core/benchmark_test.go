package core

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// benchmarkCSV builds a roster with n rows spread over a few departments.
func benchmarkCSV(n int) string {
	var b strings.Builder
	b.WriteString("firstname,lastname,email,departments,created,groups\n")
	depts := []string{"eng", "sales", "ops", "eng,ops"}
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "First%d,Last%d,user%d@example.com,\"%s\",2024-01-01,g%d;all\n",
			i, i, i, depts[i%len(depts)], i%10)
	}
	return b.String()
}

func benchmarkService(b *testing.B, rows int) *Service {
	b.Helper()
	s, err := NewService(testConfig())
	if err != nil {
		b.Fatal(err)
	}
	if _, err := s.Upload(context.Background(), "bench.csv", strings.NewReader(benchmarkCSV(rows))); err != nil {
		b.Fatal(err)
	}
	return s
}

// BenchmarkUpload measures parse and swap of a 10k row CSV.
func BenchmarkUpload(b *testing.B) {
	data := benchmarkCSV(10000)
	s, err := NewService(testConfig())
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Upload(context.Background(), "bench.csv", strings.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	s := benchmarkService(b, 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Search("last99", "ops")
	}
}

func BenchmarkUpdateGroups(b *testing.B) {
	s := benchmarkService(b, 10000)
	req := GroupUpdate{
		UserIDs:        []string{"First1_Last1_user1@example.com", "First500_Last500_user500@example.com"},
		GroupsToAdd:    []string{"bench"},
		GroupsToRemove: []string{"all"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.UpdateGroups(req); err != nil {
			b.Fatal(err)
		}
	}
}
