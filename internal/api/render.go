package api

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"taskr/internal/entity"
	"taskr/internal/forms"
)

type loginPage struct {
	Flashes []string
	Error   string
	Form    forms.LoginForm
}

type registerPage struct {
	Flashes []string
	Error   string
	Form    forms.RegisterForm
	Errors  forms.Errors
}

type tasksPage struct {
	Flashes     []string
	Form        forms.TaskForm
	Errors      forms.Errors
	OpenTasks   []entity.Task
	ClosedTasks []entity.Task
}

// Renderer implements echo.Renderer over html/template. The pages are
// deliberately bare; they exist to carry the forms, lists and flash messages.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{templates: template.Must(template.New("taskr").Parse(pages))}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

const pages = `
{{define "flashes"}}{{range .Flashes}}<p class="flash">{{.}}</p>
{{end}}{{end}}

{{define "login"}}<!DOCTYPE html>
<html>
<head><title>Taskr - Login</title></head>
<body>
{{template "flashes" .}}
<h1>Taskr</h1>
<p>Please login to access your task list.</p>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<form method="post" action="/">
<label>Username <input name="name" value="{{.Form.Name}}"></label>
<label>Password <input name="password" type="password"></label>
<button type="submit">Login</button>
</form>
<p><a href="/register/">Register</a></p>
</body>
</html>
{{end}}

{{define "register"}}<!DOCTYPE html>
<html>
<head><title>Taskr - Register</title></head>
<body>
{{template "flashes" .}}
<h1>Taskr</h1>
<p>Please register to access the task list.</p>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<form method="post" action="/register/">
<label>Username <input name="name" value="{{.Form.Name}}"></label>
{{with index .Errors "name"}}<span class="error">{{.}}</span>{{end}}
<label>Email <input name="email" value="{{.Form.Email}}"></label>
{{with index .Errors "email"}}<span class="error">{{.}}</span>{{end}}
<label>Password <input name="password" type="password"></label>
{{with index .Errors "password"}}<span class="error">{{.}}</span>{{end}}
<label>Confirm <input name="confirm" type="password"></label>
{{with index .Errors "confirm"}}<span class="error">{{.}}</span>{{end}}
<button type="submit">Register</button>
</form>
<p><a href="/">Login</a></p>
</body>
</html>
{{end}}

{{define "tasks"}}<!DOCTYPE html>
<html>
<head><title>Taskr - Tasks</title></head>
<body>
{{template "flashes" .}}
<h1>Your tasks</h1>
<p><a href="/logout/">Logout</a></p>

<h2>Add a new task</h2>
<form method="post" action="/add/">
<label>Name <input name="name" value="{{.Form.Name}}"></label>
{{with index .Errors "name"}}<span class="error">{{.}}</span>{{end}}
<label>Due date (mm/dd/yyyy) <input name="due_date" value="{{.Form.DueDate}}"></label>
{{with index .Errors "due_date"}}<span class="error">{{.}}</span>{{end}}
<label>Priority <input name="priority" value="{{.Form.Priority}}"></label>
{{with index .Errors "priority"}}<span class="error">{{.}}</span>{{end}}
<button type="submit">Save</button>
</form>

<h2>Open tasks</h2>
<ul id="open-tasks">
{{range .OpenTasks}}<li>{{.Name}} (due {{.DueDate}}, priority {{.Priority}})
 <a href="/complete/{{.TaskID}}/">Mark as complete</a>
 <a href="/delete/{{.TaskID}}/">Delete</a></li>
{{end}}</ul>

<h2>Closed tasks</h2>
<ul id="closed-tasks">
{{range .ClosedTasks}}<li>{{.Name}} (due {{.DueDate}}, priority {{.Priority}})
 <a href="/delete/{{.TaskID}}/">Delete</a></li>
{{end}}</ul>
</body>
</html>
{{end}}
`
