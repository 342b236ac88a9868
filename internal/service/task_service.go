package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"taskr/internal/entity"
	"taskr/internal/repository"
)

const postedDateLayout = "2006-01-02 15:04:05"

// TaskEvent is published to the event stream after each successful mutation.
type TaskEvent struct {
	Action string `json:"action"` // "created", "completed", "deleted"
	TaskID int    `json:"task_id"`
	UserID int    `json:"user_id"`
	Time   string `json:"time"`
}

// TaskService is a service that provides task-related operations.
type TaskService struct {
	tasks       *repository.TaskRepository
	kafkaWriter *kafka.Writer
}

// NewTaskService creates a new instance of TaskService. kafkaWriter may be
// nil, in which case no events are published.
func NewTaskService(tasks *repository.TaskRepository, kafkaWriter *kafka.Writer) *TaskService {
	return &TaskService{tasks: tasks, kafkaWriter: kafkaWriter}
}

// ListTasks returns the open and closed task lists, each ordered by due date.
func (s *TaskService) ListTasks(ctx context.Context) (open, closed []entity.Task, err error) {
	open, err = s.tasks.FindOpenTasks(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing open tasks")
		return nil, nil, err
	}

	closed, err = s.tasks.FindClosedTasks(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing closed tasks")
		return nil, nil, err
	}

	return open, closed, nil
}

// AddTask inserts a new open task owned by userID.
func (s *TaskService) AddTask(ctx context.Context, userID int, name, dueDate string, priority int) (*entity.Task, error) {
	task := &entity.Task{
		Name:       name,
		DueDate:    dueDate,
		Priority:   priority,
		PostedDate: time.Now().Format(postedDateLayout),
		Status:     entity.StatusOpen,
		UserID:     userID,
	}

	created, err := s.tasks.InsertTask(ctx, task)
	if err != nil {
		logger.Error().Err(err).Msg("Error inserting task")
		return nil, err
	}

	s.publishEvent(ctx, "created", created.TaskID, userID)
	return created, nil
}

// CompleteTask closes a task when userID owns it or admin is set. Returns
// false when no row was updated, which covers both a foreign owner and a
// nonexistent task.
func (s *TaskService) CompleteTask(ctx context.Context, taskID, userID int, admin bool) (bool, error) {
	ok, err := s.tasks.SetTaskStatus(ctx, taskID, entity.StatusClosed, userID, admin)
	if err != nil {
		logger.Error().Err(err).Msgf("Error completing task %d", taskID)
		return false, err
	}

	if ok {
		s.publishEvent(ctx, "completed", taskID, userID)
	}
	return ok, nil
}

// DeleteTask removes a task under the same authorization rule as CompleteTask.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID int, admin bool) (bool, error) {
	ok, err := s.tasks.DeleteTaskIfOwned(ctx, taskID, userID, admin)
	if err != nil {
		logger.Error().Err(err).Msgf("Error deleting task %d", taskID)
		return false, err
	}

	if ok {
		s.publishEvent(ctx, "deleted", taskID, userID)
	}
	return ok, nil
}

// publishEvent is best effort: the stream is optional and a broker outage
// must not fail the request.
func (s *TaskService) publishEvent(ctx context.Context, action string, taskID, userID int) {
	if s.kafkaWriter == nil {
		return
	}

	event := TaskEvent{
		Action: action,
		TaskID: taskID,
		UserID: userID,
		Time:   time.Now().Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Error encoding task event")
		return
	}

	if err := s.kafkaWriter.WriteMessages(ctx, kafka.Message{Value: payload}); err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s event for task %d", action, taskID)
	}
}
