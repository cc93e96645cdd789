package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/langsoc/coursebot/core/telegram/callbacks"
	tghelpers "github.com/langsoc/coursebot/core/telegram/helpers"
	"github.com/langsoc/coursebot/core/telegram/state"
	"github.com/langsoc/coursebot/internal/domain"

	tele "gopkg.in/telebot.v4"
)

// Catalog form flows collect one entity each; the same flow serves both
// creation and editing (edits re-collect every field).
const (
	flowTermForm    = "term-form"
	flowTeacherForm = "teacher-form"
	flowCourseForm  = "course-form"
	flowFAQForm     = "faq-form"
	flowAboutSet    = "about-set"

	tmpEditID = "edit_id"

	stepTermID    = "term_id"
	stepTeacherID = "teacher_id"
)

func requireText(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input: %w", domain.ErrValidation)
	}
	return nil
}

// requirePrice accepts a non-negative integer, tolerating thousand
// separators like "1,250,000".
func requirePrice(input string) error {
	if _, err := parsePrice(input); err != nil {
		return fmt.Errorf("not a valid price: %w", domain.ErrValidation)
	}
	return nil
}

func parsePrice(input string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid price %q", input)
	}
	return v, nil
}

// adminFlow describes a catalog form: the prompt per step, which steps
// are answered with inline buttons instead of text, and the action run
// once every field is collected.
type adminFlow struct {
	name          string
	steps         []state.Step
	prompts       map[string]string
	callbackSteps map[string]bool
	finish        func(a *App, c tele.Context, fields map[string]string, editID int64) error
}

var adminFlows = []adminFlow{
	{
		name: flowTermForm,
		steps: []state.Step{
			{Name: "name", Validate: requireText},
			{Name: "description"},
		},
		prompts: map[string]string{
			"name":        "Term name?",
			"description": "Short description? (send \"-\" to leave empty)",
		},
		finish: func(a *App, c tele.Context, fields map[string]string, editID int64) error {
			ctx := tghelpers.BuildContext(c)
			if editID != 0 {
				if err := a.catalog.UpdateTerm(ctx, editID, fields["name"], dashEmpty(fields["description"])); err != nil {
					return a.fail(c, err)
				}
				return c.Send(fmt.Sprintf("Term #%d updated.", editID))
			}
			id, err := a.catalog.CreateTerm(ctx, fields["name"], dashEmpty(fields["description"]))
			if err != nil {
				return a.fail(c, err)
			}
			return c.Send(fmt.Sprintf("Term #%d created.", id))
		},
	},
	{
		name: flowTeacherForm,
		steps: []state.Step{
			{Name: "name", Validate: requireText},
			{Name: stepTermID},
			{Name: "bio"},
		},
		prompts: map[string]string{
			"name":     "Teacher name?",
			stepTermID: "Which term do they teach?",
			"bio":      "Short bio? (send \"-\" to leave empty)",
		},
		callbackSteps: map[string]bool{stepTermID: true},
		finish: func(a *App, c tele.Context, fields map[string]string, editID int64) error {
			ctx := tghelpers.BuildContext(c)
			termID, _ := strconv.ParseInt(fields[stepTermID], 10, 64)
			if editID != 0 {
				err := a.catalog.UpdateTeacher(ctx, editID, fields["name"], termID, dashEmpty(fields["bio"]))
				if errors.Is(err, domain.ErrNotFound) {
					return c.Send("That term or teacher no longer exists.")
				}
				if err != nil {
					return a.fail(c, err)
				}
				return c.Send(fmt.Sprintf("Teacher #%d updated.", editID))
			}
			id, err := a.catalog.CreateTeacher(ctx, fields["name"], termID, dashEmpty(fields["bio"]))
			if errors.Is(err, domain.ErrNotFound) {
				return c.Send("That term no longer exists. Start over.")
			}
			if err != nil {
				return a.fail(c, err)
			}
			return c.Send(fmt.Sprintf("Teacher #%d created.", id))
		},
	},
	{
		name: flowCourseForm,
		steps: []state.Step{
			{Name: stepTermID},
			{Name: stepTeacherID},
			{Name: "day", Validate: requireText},
			{Name: "time", Validate: requireText},
			{Name: "location"},
			{Name: "topics"},
			{Name: "price", Validate: requirePrice},
		},
		prompts: map[string]string{
			stepTermID:    "Which term?",
			stepTeacherID: "Which teacher?",
			"day":         "Class day? (e.g. Saturday)",
			"time":        "Class time? (e.g. 16:00-18:00)",
			"location":    "Location? (send \"-\" to leave empty)",
			"topics":      "Topics covered? (send \"-\" to leave empty)",
			"price":       "Price in the smallest currency unit?",
		},
		callbackSteps: map[string]bool{stepTermID: true, stepTeacherID: true},
		finish: func(a *App, c tele.Context, fields map[string]string, editID int64) error {
			ctx := tghelpers.BuildContext(c)
			termID, _ := strconv.ParseInt(fields[stepTermID], 10, 64)
			teacherID, _ := strconv.ParseInt(fields[stepTeacherID], 10, 64)
			price, _ := parsePrice(fields["price"])
			course := domain.Course{
				ID:        editID,
				TermID:    termID,
				TeacherID: teacherID,
				Day:       strings.TrimSpace(fields["day"]),
				Time:      strings.TrimSpace(fields["time"]),
				Location:  dashEmpty(fields["location"]),
				Topics:    dashEmpty(fields["topics"]),
				Price:     price,
			}
			var err error
			var id int64
			if editID != 0 {
				err = a.catalog.UpdateCourse(ctx, course)
				id = editID
			} else {
				id, err = a.catalog.CreateCourse(ctx, course)
			}
			if errors.Is(err, domain.ErrNotFound) {
				return c.Send("Unknown term or teacher. Start over.")
			}
			if err != nil {
				return a.fail(c, err)
			}
			if editID != 0 {
				return c.Send(fmt.Sprintf("Course #%d updated.", id))
			}
			return c.Send(fmt.Sprintf("Course #%d created.", id))
		},
	},
	{
		name: flowFAQForm,
		steps: []state.Step{
			{Name: "question", Validate: requireText},
			{Name: "answer", Validate: requireText},
		},
		prompts: map[string]string{
			"question": "The question?",
			"answer":   "The answer?",
		},
		finish: func(a *App, c tele.Context, fields map[string]string, editID int64) error {
			ctx := tghelpers.BuildContext(c)
			if editID != 0 {
				if err := a.catalog.UpdateFAQ(ctx, editID, fields["question"], fields["answer"]); err != nil {
					return a.fail(c, err)
				}
				return c.Send(fmt.Sprintf("FAQ #%d updated.", editID))
			}
			id, err := a.catalog.CreateFAQ(ctx, fields["question"], fields["answer"])
			if err != nil {
				return a.fail(c, err)
			}
			return c.Send(fmt.Sprintf("FAQ #%d created.", id))
		},
	},
	{
		name: flowAboutSet,
		steps: []state.Step{
			{Name: "title"},
			{Name: "content", Validate: requireText},
		},
		prompts: map[string]string{
			"title":   "Title? (send \"-\" to leave empty)",
			"content": "The description text?",
		},
		finish: func(a *App, c tele.Context, fields map[string]string, _ int64) error {
			ctx := tghelpers.BuildContext(c)
			if err := a.catalog.SetAbout(ctx, dashEmpty(fields["title"]), fields["content"]); err != nil {
				return a.fail(c, err)
			}
			return c.Send("About text updated.")
		},
	},
}

// dashEmpty maps the "-" skip marker to an empty string.
func dashEmpty(v string) string {
	v = strings.TrimSpace(v)
	if v == "-" {
		return ""
	}
	return v
}

func registerAdminFlows() error {
	for i := range adminFlows {
		f := &adminFlows[i]
		if err := state.RegisterFlow(&state.Flow{Name: f.name, Steps: f.steps}); err != nil {
			return err
		}
	}
	return nil
}

// startAdminFlow begins a creation dialog.
func (a *App) startAdminFlow(f *adminFlow) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		if err := a.fsm.Begin(userID, f.name); err != nil {
			return a.fail(c, err)
		}
		if err := c.Send("Send /cancel anytime to abort."); err != nil {
			return err
		}
		return a.promptStep(c, f, f.steps[0])
	}
}

// startAdminEdit begins the same dialog pre-targeted at an existing
// record; all fields are re-collected.
func (a *App) startAdminEdit(f *adminFlow) tele.HandlerFunc {
	return func(c tele.Context) error {
		id, err := callbacks.PayloadInt64(c)
		if err != nil {
			return c.Send(msgUseButtons)
		}
		userID := c.Sender().ID
		if err := a.fsm.Begin(userID, f.name); err != nil {
			return a.fail(c, err)
		}
		a.fsm.SetTemp(userID, tmpEditID, id)
		if err := c.Send(fmt.Sprintf("Editing #%d; every field is asked again. /cancel to abort.", id)); err != nil {
			return err
		}
		return a.promptStep(c, f, f.steps[0])
	}
}

// promptStep asks the user for a step's value: a term or teacher picker
// for selection steps, a plain question otherwise.
func (a *App) promptStep(c tele.Context, f *adminFlow, step state.Step) error {
	ctx := tghelpers.BuildContext(c)
	switch step.Name {
	case stepTermID:
		if !f.callbackSteps[stepTermID] {
			break
		}
		terms, err := a.catalog.Terms(ctx)
		if err != nil {
			return a.fail(c, err)
		}
		if len(terms) == 0 {
			a.fsm.Cancel(c.Sender().ID)
			return c.Send("No terms exist yet; create one first.")
		}
		return c.Send(f.prompts[stepTermID], pickerMarkup(cbFlowTerm, termIDs(terms), termNames(terms)))
	case stepTeacherID:
		termID := a.tempFlowInt64(c.Sender().ID, stepTermID)
		teachers, err := a.catalog.TeachersByTerm(ctx, termID)
		if err != nil {
			return a.fail(c, err)
		}
		if len(teachers) == 0 {
			a.fsm.Cancel(c.Sender().ID)
			return c.Send("That term has no teachers yet; add one first.")
		}
		ids := make([]int64, len(teachers))
		labels := make([]string, len(teachers))
		for i, t := range teachers {
			ids[i], labels[i] = t.ID, t.Name
		}
		return c.Send(f.prompts[stepTeacherID], pickerMarkup(cbFlowTeacher, ids, labels))
	}
	return c.Send(f.prompts[step.Name])
}

// tempFlowInt64 reads a previously collected numeric step value, which
// flows store as its string payload.
func (a *App) tempFlowInt64(userID int64, key string) int64 {
	if raw, ok := a.fsm.GetTempString(userID, key); ok {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v
		}
	}
	return 0
}

// adminFlowInput advances a form one text message at a time.
func (a *App) adminFlowInput(f *adminFlow) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		step, ok := a.fsm.CurrentStep(userID)
		if !ok {
			a.fsm.Cancel(userID)
			return c.Send(msgUseButtons)
		}
		if f.callbackSteps[step.Name] {
			return a.promptStep(c, f, step)
		}

		text := strings.TrimSpace(c.Text())
		if step.Validate != nil {
			if err := step.Validate(text); err != nil {
				return c.Send("Invalid value. " + f.prompts[step.Name])
			}
		}
		return a.advanceAdminFlow(c, f, step.Name, text)
	}
}

// pickFlowEntity handles the term and teacher picker callbacks inside
// catalog forms.
func (a *App) pickFlowEntity(stepName string) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		flowName, ok := a.fsm.ActiveFlow(userID)
		if !ok {
			return c.Send(msgUseButtons)
		}
		f := flowByName(flowName)
		if f == nil {
			return c.Send(msgUseButtons)
		}
		step, ok := a.fsm.CurrentStep(userID)
		if !ok || step.Name != stepName {
			return c.Send("That button belongs to an earlier question; please answer the current one.")
		}
		id, err := callbacks.PayloadInt64(c)
		if err != nil {
			return c.Send(msgUseButtons)
		}
		return a.advanceAdminFlow(c, f, stepName, strconv.FormatInt(id, 10))
	}
}

func (a *App) advanceAdminFlow(c tele.Context, f *adminFlow, field, value string) error {
	userID := c.Sender().ID
	next, more := a.fsm.Advance(userID, field, value)
	if more {
		return a.promptStep(c, f, next)
	}

	raw, ok := a.fsm.Complete(userID)
	if !ok {
		return c.Send(msgUseButtons)
	}
	editID, _ := raw[tmpEditID].(int64)
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, isStr := v.(string); isStr {
			fields[k] = s
		}
	}
	return f.finish(a, c, fields, editID)
}

// listTerms shows the catalog with ids for admin reference.
func (a *App) listTerms(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	terms, err := a.catalog.Terms(ctx)
	if err != nil {
		return a.fail(c, err)
	}
	if len(terms) == 0 {
		return c.Send(msgNoTerms)
	}
	var b strings.Builder
	for _, t := range terms {
		fmt.Fprintf(&b, "#%d %s\n", t.ID, t.Name)
	}
	return c.Send(b.String())
}

// listTeachers shows all teachers with ids and their terms.
func (a *App) listTeachers(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	teachers, err := a.catalog.Teachers(ctx)
	if err != nil {
		return a.fail(c, err)
	}
	if len(teachers) == 0 {
		return c.Send(msgNoTeachers)
	}
	var b strings.Builder
	for _, t := range teachers {
		fmt.Fprintf(&b, "#%d %s (term #%d)\n", t.ID, t.Name, t.TermID)
	}
	return c.Send(b.String())
}

func termIDs(terms []domain.Term) []int64 {
	ids := make([]int64, len(terms))
	for i, t := range terms {
		ids[i] = t.ID
	}
	return ids
}

func termNames(terms []domain.Term) []string {
	names := make([]string, len(terms))
	for i, t := range terms {
		names[i] = t.Name
	}
	return names
}

// entityMenu renders a pick-one list for edit and delete commands.
func (a *App) entityMenu(title, unique string, load func(c tele.Context) ([]int64, []string, error)) tele.HandlerFunc {
	return func(c tele.Context) error {
		ids, labels, err := load(c)
		if err != nil {
			return a.fail(c, err)
		}
		if len(ids) == 0 {
			return c.Send("Nothing to pick from.")
		}
		return c.Send(title, pickerMarkup(unique, ids, labels))
	}
}

func (a *App) loadTermChoices(c tele.Context) ([]int64, []string, error) {
	terms, err := a.catalog.Terms(buildCtx(c))
	if err != nil {
		return nil, nil, err
	}
	return termIDs(terms), termNames(terms), nil
}

func (a *App) loadTeacherChoices(c tele.Context) ([]int64, []string, error) {
	teachers, err := a.catalog.Teachers(buildCtx(c))
	if err != nil {
		return nil, nil, err
	}
	ids := make([]int64, len(teachers))
	labels := make([]string, len(teachers))
	for i, t := range teachers {
		ids[i], labels[i] = t.ID, t.Name
	}
	return ids, labels, nil
}

func (a *App) loadCourseChoices(c tele.Context) ([]int64, []string, error) {
	courses, err := a.catalog.Courses(buildCtx(c))
	if err != nil {
		return nil, nil, err
	}
	ids := make([]int64, len(courses))
	labels := make([]string, len(courses))
	for i, co := range courses {
		ids[i] = co.ID
		labels[i] = fmt.Sprintf("#%d %s / %s", co.ID, co.TermName, co.TeacherName)
	}
	return ids, labels, nil
}

func (a *App) loadFAQChoices(c tele.Context) ([]int64, []string, error) {
	faqs, err := a.catalog.FAQs(buildCtx(c))
	if err != nil {
		return nil, nil, err
	}
	ids := make([]int64, len(faqs))
	labels := make([]string, len(faqs))
	for i, f := range faqs {
		ids[i], labels[i] = f.ID, f.Question
	}
	return ids, labels, nil
}

// confirmDelete swaps the pick list for a yes/no prompt.
func (a *App) confirmDelete(kind, confirmUnique string) tele.HandlerFunc {
	return func(c tele.Context) error {
		id, err := callbacks.PayloadInt64(c)
		if err != nil {
			return c.Send(msgUseButtons)
		}
		return tghelpers.EditOrSendMD(c,
			fmt.Sprintf("Really delete %s #%d?", kind, id),
			confirmDeleteMarkup(confirmUnique, id))
	}
}

// deleteEntity handles a confirmed delete, translating ErrInUse into an
// explanation instead of a failure.
func (a *App) deleteEntity(kind string, del func(c tele.Context, id int64) error) tele.HandlerFunc {
	return func(c tele.Context) error {
		id, err := callbacks.PayloadInt64(c)
		if err != nil {
			return c.Send(msgUseButtons)
		}
		err = del(c, id)
		switch {
		case errors.Is(err, domain.ErrInUse):
			return c.Send(fmt.Sprintf("Can't delete this %s: other records still point at it.", kind))
		case errors.Is(err, domain.ErrNotFound):
			return c.Send(fmt.Sprintf("That %s is already gone.", kind))
		case err != nil:
			return a.fail(c, err)
		}
		return c.Send(fmt.Sprintf("Deleted %s #%d.", kind, id))
	}
}

func (a *App) abortDelete(c tele.Context) error {
	return c.Edit("Delete cancelled.")
}
