package entity

const (
	StatusOpen   = 1
	StatusClosed = 0
)

type Task struct {
	TaskID     int    `json:"task_id"`
	Name       string `json:"name"`
	DueDate    string `json:"due_date"`
	Priority   int    `json:"priority"`
	PostedDate string `json:"posted_date"`
	Status     int    `json:"status"` // 1 = open, 0 = closed
	UserID     int    `json:"user_id"`
}

/*
Schema:

CREATE TABLE tasks (
	task_id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	due_date TEXT NOT NULL,
	priority INTEGER NOT NULL,
	posted_date TEXT NOT NULL,
	status INTEGER NOT NULL DEFAULT 1,
	user_id INTEGER NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id)
);
*/
