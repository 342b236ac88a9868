package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"taskr/internal/entity"
)

// ErrDuplicateUser is returned when an insert would violate the unique
// (name, email) invariant.
var ErrDuplicateUser = errors.New("username or email already taken")

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	query := `INSERT INTO users (name, email, password, role) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.Password, user.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByName(ctx context.Context, name string) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, name, email, password, role FROM users WHERE name = ?`
	err := r.db.QueryRowContext(ctx, query, name).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Role)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, name, email, password, role FROM users WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Role)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// isUniqueViolation matches the unique-constraint errors of both supported
// drivers (sqlite and mysql).
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Error 1062") ||
		strings.Contains(msg, "Duplicate entry")
}

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db}
}

// FindOpenTasks returns open tasks ordered by due date, earliest first.
func (r *TaskRepository) FindOpenTasks(ctx context.Context) ([]entity.Task, error) {
	return r.findByStatus(ctx, entity.StatusOpen)
}

// FindClosedTasks returns completed tasks ordered by due date, earliest first.
func (r *TaskRepository) FindClosedTasks(ctx context.Context) ([]entity.Task, error) {
	return r.findByStatus(ctx, entity.StatusClosed)
}

func (r *TaskRepository) findByStatus(ctx context.Context, status int) ([]entity.Task, error) {
	// due_date is stored as MM/DD/YYYY, so chronological order is year,
	// month, day; a plain text sort would break across year boundaries.
	query := `SELECT task_id, name, due_date, priority, posted_date, status, user_id FROM tasks WHERE status = ?
		ORDER BY substr(due_date, 7, 4) ASC, substr(due_date, 1, 2) ASC, substr(due_date, 4, 2) ASC`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		task := entity.Task{}
		err := rows.Scan(&task.TaskID, &task.Name, &task.DueDate, &task.Priority, &task.PostedDate, &task.Status, &task.UserID)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) GetTaskByID(ctx context.Context, id int) (*entity.Task, error) {
	task := &entity.Task{}
	query := `SELECT task_id, name, due_date, priority, posted_date, status, user_id FROM tasks WHERE task_id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&task.TaskID, &task.Name, &task.DueDate, &task.Priority, &task.PostedDate, &task.Status, &task.UserID)
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (r *TaskRepository) InsertTask(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	query := `INSERT INTO tasks (name, due_date, priority, posted_date, status, user_id) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, task.Name, task.DueDate, task.Priority, task.PostedDate, task.Status, task.UserID)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	task.TaskID = int(id)
	return task, nil
}

// SetTaskStatus updates a task's status, but only when the caller owns the
// task or holds the admin role. The ownership check and the mutation are one
// statement so nothing can change between them. Returns whether a row was
// updated.
func (r *TaskRepository) SetTaskStatus(ctx context.Context, taskID, status, userID int, admin bool) (bool, error) {
	query := `UPDATE tasks SET status = ? WHERE task_id = ? AND (user_id = ? OR ? = 1)`
	res, err := r.db.ExecContext(ctx, query, status, taskID, userID, boolFlag(admin))
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteTaskIfOwned removes a task under the same authorization rule as
// SetTaskStatus. Returns whether a row was deleted.
func (r *TaskRepository) DeleteTaskIfOwned(ctx context.Context, taskID, userID int, admin bool) (bool, error) {
	query := `DELETE FROM tasks WHERE task_id = ? AND (user_id = ? OR ? = 1)`
	res, err := r.db.ExecContext(ctx, query, taskID, userID, boolFlag(admin))
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}
