package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"taskr/internal/forms"
	"taskr/internal/repository"
	"taskr/internal/service"
	"taskr/internal/session"
)

type Handler struct {
	auth     *service.AuthService
	tasks    *service.TaskService
	sessions *session.Manager
}

// NewHandler creates a new instance of Handler.
func NewHandler(auth *service.AuthService, tasks *service.TaskService, sessions *session.Manager) *Handler {
	return &Handler{auth: auth, tasks: tasks, sessions: sessions}
}

// Routes registers the full HTTP surface on e.
func (h *Handler) Routes(e *echo.Echo) {
	e.GET("/", h.LoginPage)
	e.POST("/", h.Login)
	e.GET("/register/", h.RegisterPage)
	e.POST("/register/", h.Register)

	protected := e.Group("", h.sessions.Required())
	protected.GET("/logout/", h.Logout)
	protected.GET("/tasks/", h.Tasks)
	protected.POST("/add/", h.AddTask)
	protected.GET("/complete/:id/", h.CompleteTask)
	protected.GET("/delete/:id/", h.DeleteTask)
}

// LoginPage renders the login form --> GET /
func (h *Handler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login", loginPage{Flashes: h.sessions.Flashes(c)})
}

// Login processes a login attempt --> POST /
func (h *Handler) Login(c echo.Context) error {
	form := forms.LoginForm{}
	if err := c.Bind(&form); err != nil {
		return c.Render(http.StatusBadRequest, "login", loginPage{Error: "Invalid request payload"})
	}

	if errs := form.Validate(); len(errs) > 0 {
		return c.Render(http.StatusOK, "login", loginPage{
			Flashes: h.sessions.Flashes(c),
			Error:   errs["form"],
			Form:    form,
		})
	}

	user, err := h.auth.Login(c.Request().Context(), form.Name, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Render(http.StatusOK, "login", loginPage{
				Flashes: h.sessions.Flashes(c),
				Error:   "Invalid username or password.",
				Form:    form,
			})
		}
		return err
	}

	if err := h.sessions.Issue(c, user); err != nil {
		return err
	}
	h.sessions.Flash(c, "Welcome!")
	return c.Redirect(http.StatusFound, "/tasks/")
}

// Logout clears the session --> GET /logout/
func (h *Handler) Logout(c echo.Context) error {
	if err := h.sessions.Clear(c); err != nil {
		return err
	}
	h.sessions.Flash(c, "Goodbye!")
	return c.Redirect(http.StatusFound, "/")
}

// RegisterPage renders the registration form --> GET /register/
func (h *Handler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register", registerPage{Flashes: h.sessions.Flashes(c)})
}

// Register processes a registration --> POST /register/
func (h *Handler) Register(c echo.Context) error {
	form := forms.RegisterForm{}
	if err := c.Bind(&form); err != nil {
		return c.Render(http.StatusBadRequest, "register", registerPage{Error: "Invalid request payload"})
	}

	if errs := form.Validate(); len(errs) > 0 {
		return c.Render(http.StatusOK, "register", registerPage{
			Flashes: h.sessions.Flashes(c),
			Form:    form,
			Errors:  errs,
		})
	}

	_, err := h.auth.Register(c.Request().Context(), form.Name, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return c.Render(http.StatusOK, "register", registerPage{
				Flashes: h.sessions.Flashes(c),
				Error:   "That username and/or email already exist.",
				Form:    form,
			})
		}
		return err
	}

	h.sessions.Flash(c, "Thanks for registering. Please login.")
	return c.Redirect(http.StatusFound, "/")
}

// Tasks lists open and closed tasks --> GET /tasks/
func (h *Handler) Tasks(c echo.Context) error {
	return h.renderTasks(c, forms.TaskForm{}, nil)
}

// AddTask creates a new task --> POST /add/
func (h *Handler) AddTask(c echo.Context) error {
	form := forms.TaskForm{}
	if err := c.Bind(&form); err != nil {
		return h.renderTasks(c, form, forms.Errors{"form": "Invalid request payload"})
	}

	// Validation failures re-render the list so the rejected input stays
	// visible; no redirect.
	if errs := form.Validate(); len(errs) > 0 {
		return h.renderTasks(c, form, errs)
	}

	user := session.CurrentUser(c)
	_, err := h.tasks.AddTask(c.Request().Context(), user.UserID, form.Name, form.DueDateValue(), form.PriorityValue())
	if err != nil {
		return err
	}

	h.sessions.Flash(c, "New entry was successfully posted. Thanks.")
	return c.Redirect(http.StatusFound, "/tasks/")
}

// CompleteTask marks a task closed --> GET /complete/:id/
func (h *Handler) CompleteTask(c echo.Context) error {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	user := session.CurrentUser(c)
	ok, err := h.tasks.CompleteTask(c.Request().Context(), taskID, user.UserID, user.Admin())
	if err != nil {
		return err
	}

	if ok {
		h.sessions.Flash(c, "The task is complete!")
	} else {
		h.sessions.Flash(c, "You can only update tasks that belong to you")
	}
	return c.Redirect(http.StatusFound, "/tasks/")
}

// DeleteTask removes a task --> GET /delete/:id/
func (h *Handler) DeleteTask(c echo.Context) error {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	user := session.CurrentUser(c)
	ok, err := h.tasks.DeleteTask(c.Request().Context(), taskID, user.UserID, user.Admin())
	if err != nil {
		return err
	}

	if ok {
		h.sessions.Flash(c, "The task was deleted.")
	} else {
		h.sessions.Flash(c, "You can only delete tasks that belong to you")
	}
	return c.Redirect(http.StatusFound, "/tasks/")
}

func (h *Handler) renderTasks(c echo.Context, form forms.TaskForm, errs forms.Errors) error {
	open, closed, err := h.tasks.ListTasks(c.Request().Context())
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "tasks", tasksPage{
		Flashes:     h.sessions.Flashes(c),
		Form:        form,
		Errors:      errs,
		OpenTasks:   open,
		ClosedTasks: closed,
	})
}
