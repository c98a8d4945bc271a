package turso

import "testing"

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{name: "empty", cfg: Config{}, wantErr: true},
		{name: "plain path", cfg: Config{URL: "samples.db"}, want: "file:samples.db"},
		{name: "file url", cfg: Config{URL: "file:/tmp/x.db"}, want: "file:/tmp/x.db"},
		{name: "remote without token", cfg: Config{URL: "libsql://db.turso.io"}, want: "libsql://db.turso.io"},
		{name: "remote with token", cfg: Config{URL: "libsql://db.turso.io", AuthToken: "tok"}, want: "libsql://db.turso.io?authToken=tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.dsn()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("dsn() = %q, want %q", got, tt.want)
			}
		})
	}
}
