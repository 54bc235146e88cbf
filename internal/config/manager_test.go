package config

import "testing"

func TestNewManager(t *testing.T) {
	setMinimalRequiredEnv(t)

	mgr, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	status := mgr.Status()
	if status.LoadedAt.IsZero() {
		t.Fatal("Status().LoadedAt is zero")
	}
	if status.ReloadCount != 1 {
		t.Fatalf("Status().ReloadCount = %d, want 1", status.ReloadCount)
	}
	if mgr.Get() == nil {
		t.Fatal("Get() returned nil")
	}
}

func TestManagerReload(t *testing.T) {
	setMinimalRequiredEnv(t)

	mgr, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	before := mgr.Status()

	t.Setenv("RAGCORE_MAX_WORKERS_PER_QUESTION", "7")
	if err := mgr.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	after := mgr.Status()
	if after.ReloadCount != before.ReloadCount+1 {
		t.Fatalf("expected reload count %d, got %d", before.ReloadCount+1, after.ReloadCount)
	}
	if mgr.Get().Retrieval.MaxWorkersPerQuestion != 7 {
		t.Fatalf("expected max workers 7 after reload, got %d", mgr.Get().Retrieval.MaxWorkersPerQuestion)
	}
}

func TestManagerReload_KeepsPreviousConfigOnError(t *testing.T) {
	setMinimalRequiredEnv(t)

	mgr, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	t.Setenv("RAGCORE_EMBEDDING_API_KEY", "")
	if err := mgr.Reload(); err == nil {
		t.Fatal("expected Reload() to fail when a required value is cleared")
	}

	if mgr.Get().Embedding.APIKey == "" {
		t.Fatal("expected previous config to remain active after failed reload")
	}
}
