package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/acampos/matriculabot/internal/career"
	"github.com/acampos/matriculabot/internal/domain"
	"github.com/acampos/matriculabot/internal/enrollment"
	"github.com/acampos/matriculabot/internal/i18n"
	"github.com/acampos/matriculabot/internal/store"
	"github.com/acampos/matriculabot/internal/term"
	"github.com/acampos/matriculabot/internal/transcript"
)

// Router dispatches authenticated input to command handlers.
//
// Admin-only verbs fall through to the same "unrecognized" reply as
// unknown input when a student sends them; the router never reveals that
// a command exists to a role that may not run it.
type Router struct {
	repo       store.Repository
	msgs       *i18n.Catalog
	enrollment *enrollment.Manager
	career     *career.Manager
	renderer   transcript.Renderer
	termNow    term.Resolver
}

// New creates a command router.
func New(
	repo store.Repository,
	msgs *i18n.Catalog,
	enrollMgr *enrollment.Manager,
	careerMgr *career.Manager,
	renderer transcript.Renderer,
	termNow term.Resolver,
) *Router {
	return &Router{
		repo:       repo,
		msgs:       msgs,
		enrollment: enrollMgr,
		career:     careerMgr,
		renderer:   renderer,
		termNow:    termNow,
	}
}

type handlerFunc func(ctx context.Context, sess *domain.Session, arg string) (domain.Reply, error)

type verb struct {
	key       string // i18n key of the command phrase
	prefix    bool   // phrase is a prefix; the rest of the input is the argument
	adminOK   bool
	studentOK bool
	handle    handlerFunc
}

func (r *Router) verbs() []verb {
	return []verb{
		{key: "cmd_help", adminOK: true, studentOK: true, handle: r.help},
		{key: "cmd_create_subject", prefix: true, adminOK: true, handle: r.createSubject},
		{key: "cmd_create_career", prefix: true, adminOK: true, handle: r.createCareer},
		{key: "cmd_list_students", adminOK: true, handle: r.listStudents},
		{key: "cmd_my_data", studentOK: true, handle: r.myData},
		{key: "cmd_view_subjects", studentOK: true, handle: r.viewSubjects},
		{key: "cmd_enroll", prefix: true, studentOK: true, handle: r.enroll},
		{key: "cmd_withdraw", prefix: true, studentOK: true, handle: r.withdraw},
		{key: "cmd_assign_career", prefix: true, studentOK: true, handle: r.assignCareer},
		{key: "cmd_transcript", studentOK: true, handle: r.transcript},
	}
}

// Dispatch resolves the verb in input for the session's locale and runs
// its handler. Unknown verbs and verbs the session's role may not run
// both produce the "unrecognized" reply. A non-nil error accompanies a
// generic failure reply and is meant for the caller's log.
func (r *Router) Dispatch(ctx context.Context, sess *domain.Session, input string) (domain.Reply, error) {
	trimmed := strings.TrimSpace(input)
	// ASCII fold keeps byte offsets aligned with trimmed for arg slicing.
	lower := asciiLower(trimmed)
	isAdmin := sess.Role == domain.RoleAdmin

	for _, v := range r.verbs() {
		phrase := asciiLower(r.msgs.T(sess.Locale, v.key, nil))

		var arg string
		if v.prefix {
			// The phrase must be the whole input or be followed by
			// whitespace; "retirar" must not match "retirarme".
			if !strings.HasPrefix(lower, phrase) {
				continue
			}
			if len(lower) > len(phrase) && !isSpace(lower[len(phrase)]) {
				continue
			}
			arg = strings.TrimSpace(trimmed[len(phrase):])
		} else if lower != phrase {
			continue
		}

		allowed := (isAdmin && v.adminOK) || (!isAdmin && v.studentOK)
		if !allowed {
			return r.text(sess, "unrecognized", nil), nil
		}
		return v.handle(ctx, sess, arg)
	}

	return r.text(sess, "unrecognized", nil), nil
}

func (r *Router) help(_ context.Context, sess *domain.Session, _ string) (domain.Reply, error) {
	key := "help_student"
	if sess.Role == domain.RoleAdmin {
		key = "help_admin"
	}
	return r.text(sess, key, nil), nil
}

func (r *Router) myData(ctx context.Context, sess *domain.Session, _ string) (domain.Reply, error) {
	user, err := r.repo.UserByID(ctx, sess.UserID)
	if err != nil {
		return r.text(sess, "error_generic", nil), fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return r.text(sess, "unrecognized", nil), nil
	}
	return r.text(sess, "my_data", i18n.Params{
		"name":        user.Name,
		"national_id": user.NationalID,
		"email":       user.Email,
	}), nil
}

func (r *Router) viewSubjects(ctx context.Context, sess *domain.Session, _ string) (domain.Reply, error) {
	subjects, err := r.repo.ListSubjects(ctx)
	if err != nil {
		return r.text(sess, "error_generic", nil), fmt.Errorf("list subjects: %w", err)
	}
	if len(subjects) == 0 {
		return r.text(sess, "no_subjects", nil), nil
	}

	lines := make([]string, 0, len(subjects))
	for _, s := range subjects {
		lines = append(lines, r.msgs.T(sess.Locale, "subject_line", i18n.Params{
			"name":    s.Name,
			"code":    s.Code,
			"credits": strconv.Itoa(s.Credits),
		}))
	}
	return domain.TextReply(strings.Join(lines, "\n")), nil
}

func (r *Router) enroll(ctx context.Context, sess *domain.Session, arg string) (domain.Reply, error) {
	code := strings.ToUpper(arg)
	if code == "" {
		return r.text(sess, "unrecognized", nil), nil
	}

	subject, err := r.enrollment.Enroll(ctx, sess.UserID, code, r.termNow())
	switch {
	case err == nil:
		return r.text(sess, "enroll_success", i18n.Params{
			"name": subject.Name,
			"code": subject.Code,
		}), nil
	case errors.Is(err, domain.ErrNotFound):
		return r.text(sess, "unrecognized", nil), nil
	case errors.Is(err, domain.ErrNoSeats):
		return r.text(sess, "no_seats", nil), nil
	case errors.Is(err, domain.ErrAlreadyEnrolled):
		return r.text(sess, "already_enrolled", nil), nil
	default:
		return r.text(sess, "enroll_error", nil), fmt.Errorf("enroll: %w", err)
	}
}

func (r *Router) withdraw(ctx context.Context, sess *domain.Session, arg string) (domain.Reply, error) {
	code := strings.ToUpper(arg)
	if code == "" {
		return r.text(sess, "unrecognized", nil), nil
	}

	subject, err := r.enrollment.Withdraw(ctx, sess.UserID, code, r.termNow())
	switch {
	case err == nil:
		return r.text(sess, "withdraw_success", i18n.Params{"name": subject.Name}), nil
	case errors.Is(err, domain.ErrNotFound):
		return r.text(sess, "unrecognized", nil), nil
	case errors.Is(err, domain.ErrNotEnrolled):
		return r.text(sess, "not_enrolled", nil), nil
	default:
		return r.text(sess, "withdraw_error", nil), fmt.Errorf("withdraw: %w", err)
	}
}

func (r *Router) assignCareer(ctx context.Context, sess *domain.Session, arg string) (domain.Reply, error) {
	code := strings.ToUpper(arg)
	if code == "" {
		return r.text(sess, "unrecognized", nil), nil
	}

	assigned, err := r.career.Assign(ctx, sess.UserID, code, r.termNow())
	switch {
	case err == nil:
		return r.text(sess, "career_assigned", i18n.Params{"name": assigned.Name}), nil
	case errors.Is(err, domain.ErrCareerAssigned):
		return r.text(sess, "career_already_assigned", nil), nil
	case errors.Is(err, domain.ErrNotFound):
		return r.text(sess, "career_not_found", nil), nil
	default:
		return r.text(sess, "error_generic", nil), fmt.Errorf("assign career: %w", err)
	}
}

func (r *Router) transcript(ctx context.Context, sess *domain.Session, _ string) (domain.Reply, error) {
	currentTerm := r.termNow()

	period, err := r.repo.PeriodByUserTerm(ctx, sess.UserID, currentTerm)
	if err != nil {
		return r.text(sess, "error_generic", nil), fmt.Errorf("load period: %w", err)
	}
	if period == nil {
		return r.text(sess, "transcript_empty", nil), nil
	}

	subjects, err := r.repo.SubjectsForPeriod(ctx, period.ID)
	if err != nil {
		return r.text(sess, "error_generic", nil), fmt.Errorf("load period subjects: %w", err)
	}
	if len(subjects) == 0 {
		return r.text(sess, "transcript_empty", nil), nil
	}

	user, err := r.repo.UserByID(ctx, sess.UserID)
	if err != nil {
		return r.text(sess, "error_generic", nil), fmt.Errorf("load user: %w", err)
	}

	attachment, err := r.renderer.Render(user, period, subjects)
	if err != nil {
		return r.text(sess, "error_generic", nil), fmt.Errorf("render transcript: %w", err)
	}
	caption := r.msgs.T(sess.Locale, "transcript_caption", i18n.Params{"term": currentTerm})
	return domain.FileReply(attachment.Filename, attachment.MIMEType, attachment.Data, caption), nil
}

func (r *Router) createSubject(ctx context.Context, sess *domain.Session, arg string) (domain.Reply, error) {
	fields := []Field{
		{Key: "name", Label: r.msgs.T(sess.Locale, "field_name", nil), Required: true},
		{Key: "code", Label: r.msgs.T(sess.Locale, "field_code", nil), Required: true},
		{Key: "semester", Label: r.msgs.T(sess.Locale, "field_semester", nil), Required: true, Numeric: true},
		{Key: "credits", Label: r.msgs.T(sess.Locale, "field_credits", nil), Required: true, Numeric: true},
		{Key: "seats", Label: r.msgs.T(sess.Locale, "field_seats", nil), Required: true, Numeric: true},
		{Key: "days", Label: r.msgs.T(sess.Locale, "field_days", nil), Required: true},
		{Key: "hours", Label: r.msgs.T(sess.Locale, "field_hours", nil), Required: true},
	}

	record, err := ParseBlock(arg, fields)
	if err != nil {
		return r.text(sess, "error_format_subject", nil), nil
	}
	if record.Int("credits") < 0 || record.Int("seats") < 0 || record.Int("semester") < 1 {
		return r.text(sess, "error_format_subject", nil), nil
	}

	subject := &domain.Subject{
		Name:     record["name"],
		Code:     strings.ToUpper(record["code"]),
		Semester: record.Int("semester"),
		Credits:  record.Int("credits"),
		Seats:    record.Int("seats"),
		Days:     record["days"],
		Hours:    record["hours"],
	}
	if err := r.repo.CreateSubject(ctx, subject); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return r.text(sess, "error_subject_duplicate", nil), nil
		}
		return r.text(sess, "error_generic", nil), fmt.Errorf("create subject: %w", err)
	}

	return r.text(sess, "subject_created", i18n.Params{"name": subject.Name}), nil
}

func (r *Router) createCareer(ctx context.Context, sess *domain.Session, arg string) (domain.Reply, error) {
	fields := []Field{
		{Key: "name", Label: r.msgs.T(sess.Locale, "field_name", nil), Required: true},
		{Key: "code", Label: r.msgs.T(sess.Locale, "field_code", nil), Required: true},
	}

	record, err := ParseBlock(arg, fields)
	if err != nil {
		return r.text(sess, "error_format_career", nil), nil
	}

	created := &domain.Career{
		Name: record["name"],
		Code: strings.ToUpper(record["code"]),
	}
	if err := r.repo.CreateCareer(ctx, created); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return r.text(sess, "error_career_duplicate", nil), nil
		}
		return r.text(sess, "error_generic", nil), fmt.Errorf("create career: %w", err)
	}

	return r.text(sess, "career_created", i18n.Params{"name": created.Name}), nil
}

func (r *Router) listStudents(ctx context.Context, sess *domain.Session, _ string) (domain.Reply, error) {
	students, err := r.repo.ListStudents(ctx)
	if err != nil {
		return r.text(sess, "error_generic", nil), fmt.Errorf("list students: %w", err)
	}
	if len(students) == 0 {
		return r.text(sess, "no_students", nil), nil
	}

	lines := make([]string, 0, len(students)+1)
	lines = append(lines, r.msgs.T(sess.Locale, "students_header", nil))
	for _, s := range students {
		lines = append(lines, fmt.Sprintf("• %s (%s)", s.Name, s.Email))
	}
	return domain.TextReply(strings.Join(lines, "\n")), nil
}

func (r *Router) text(sess *domain.Session, key string, params i18n.Params) domain.Reply {
	return domain.TextReply(r.msgs.T(sess.Locale, key, params))
}
