package service

import (
	"context"
	"testing"

	"taskr/internal/entity"
	"taskr/internal/repository"
)

func TestAddTaskDefaults(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	auth := newAuthService(db)
	tasks := NewTaskService(repository.NewTaskRepository(db), nil)

	user, err := auth.Register(context.Background(), "andre", "andre@lolo.pt", "123456")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	task, err := tasks.AddTask(context.Background(), user.ID, "Go to the bank", "01/12/2017", 5)
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task.Status != entity.StatusOpen {
		t.Errorf("new task should be open, got status %d", task.Status)
	}
	if task.PostedDate == "" {
		t.Error("posted date should be set on creation")
	}
	if task.UserID != user.ID {
		t.Errorf("task should belong to its creator, got user %d", task.UserID)
	}
}

func TestCompleteAndDeleteHonorOwnership(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	auth := newAuthService(db)
	tasks := NewTaskService(repository.NewTaskRepository(db), nil)

	owner, err := auth.Register(context.Background(), "andre", "andre@lolo.pt", "123456")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	other, err := auth.Register(context.Background(), "filipe", "filipe@lolo.pt", "123456")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	task, err := tasks.AddTask(context.Background(), owner.ID, "Go to the bank", "01/12/2017", 5)
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	if ok, err := tasks.CompleteTask(context.Background(), task.TaskID, other.ID, false); err != nil || ok {
		t.Errorf("foreign user completing: expected (false, nil), got (%v, %v)", ok, err)
	}
	if ok, err := tasks.DeleteTask(context.Background(), task.TaskID, other.ID, false); err != nil || ok {
		t.Errorf("foreign user deleting: expected (false, nil), got (%v, %v)", ok, err)
	}

	// Admin role bypasses ownership entirely.
	if ok, err := tasks.CompleteTask(context.Background(), task.TaskID, other.ID, true); err != nil || !ok {
		t.Errorf("admin completing: expected (true, nil), got (%v, %v)", ok, err)
	}
	if ok, err := tasks.DeleteTask(context.Background(), task.TaskID, other.ID, true); err != nil || !ok {
		t.Errorf("admin deleting: expected (true, nil), got (%v, %v)", ok, err)
	}
}

func TestListTasksSplitsByStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	auth := newAuthService(db)
	tasks := NewTaskService(repository.NewTaskRepository(db), nil)

	user, err := auth.Register(context.Background(), "andre", "andre@lolo.pt", "123456")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	first, err := tasks.AddTask(context.Background(), user.ID, "first", "03/05/2017", 5)
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if _, err := tasks.AddTask(context.Background(), user.ID, "second", "01/12/2017", 5); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	// Due the previous December, so it must list before "second".
	if _, err := tasks.AddTask(context.Background(), user.ID, "wrap", "12/31/2016", 5); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if _, err := tasks.CompleteTask(context.Background(), first.TaskID, user.ID, false); err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}

	open, closed, err := tasks.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(open) != 2 || open[0].Name != "wrap" || open[1].Name != "second" {
		t.Errorf("expected open list [wrap second], got %v", open)
	}
	if len(closed) != 1 || closed[0].Name != "first" {
		t.Errorf("expected closed list [first], got %v", closed)
	}
}
