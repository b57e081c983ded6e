package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestErrorAlert(t *testing.T) {
	tests := []struct {
		name    string
		message string
		action  string
		code    string
		want    []string
		absent  []string
	}{
		{
			name:    "with action",
			message: "File is not a valid CSV",
			action:  "Check for unbalanced quotes",
			code:    "FILE002",
			want:    []string{`role="alert"`, "File is not a valid CSV", `<p class="alert-action">Check for unbalanced quotes</p>`, "Code: FILE002"},
		},
		{
			name:    "without action",
			message: "Too many requests",
			code:    "RATE001",
			want:    []string{"Too many requests", "Code: RATE001"},
			absent:  []string{"alert-action"},
		},
		{
			name:    "escapes markup",
			message: "<script>alert(1)</script>",
			code:    "ERR000",
			want:    []string{"&lt;script&gt;"},
			absent:  []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := ErrorAlert(tt.message, tt.action, tt.code).Render(context.Background(), &buf); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out, a) {
					t.Errorf("output %q should not contain %q", out, a)
				}
			}
		})
	}
}
