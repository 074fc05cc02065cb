package command

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/acampos/matriculabot/internal/career"
	"github.com/acampos/matriculabot/internal/domain"
	"github.com/acampos/matriculabot/internal/enrollment"
	"github.com/acampos/matriculabot/internal/i18n"
	"github.com/acampos/matriculabot/internal/store"
	"github.com/acampos/matriculabot/internal/term"
	"github.com/acampos/matriculabot/internal/transcript"
)

const testTerm = "2025-2"

type routerFixture struct {
	router *Router
	repo   *store.SQLiteStore
	msgs   *i18n.Catalog
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	msgs := i18n.New()
	router := New(repo, msgs, enrollment.New(repo), career.New(repo),
		transcript.NewTextRenderer(), term.Fixed(testTerm))
	return &routerFixture{router: router, repo: repo, msgs: msgs}
}

func (f *routerFixture) user(t *testing.T, role domain.Role, email string) *domain.User {
	t.Helper()
	user := &domain.User{Name: "Test User", NationalID: "12345", Email: email, Role: role}
	if err := f.repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func (f *routerFixture) session(user *domain.User) *domain.Session {
	return &domain.Session{
		Identity: "chat-1",
		State:    domain.StateAuthenticated,
		Locale:   "es",
		UserID:   user.ID,
		Role:     user.Role,
	}
}

func (f *routerFixture) subject(t *testing.T, code string, credits, seats int) *domain.Subject {
	t.Helper()
	subject := &domain.Subject{
		Code: code, Name: "Subject " + code, Semester: 1,
		Credits: credits, Seats: seats, Days: "Lun", Hours: "08:00-10:00",
	}
	if err := f.repo.CreateSubject(context.Background(), subject); err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	return subject
}

func (f *routerFixture) dispatch(t *testing.T, sess *domain.Session, input string) domain.Reply {
	t.Helper()
	reply, err := f.router.Dispatch(context.Background(), sess, input)
	if err != nil {
		t.Fatalf("Dispatch(%q): %v", input, err)
	}
	return reply
}

func (f *routerFixture) es(key string, params i18n.Params) string {
	return f.msgs.T("es", key, params)
}

func TestUnknownVerbIsUnrecognized(t *testing.T) {
	f := newRouterFixture(t)
	sess := f.session(f.user(t, domain.RoleStudent, "s@y.com"))

	reply := f.dispatch(t, sess, "hacer magia")
	if reply.Text != f.es("unrecognized", nil) {
		t.Errorf("Expected unrecognized, got %q", reply.Text)
	}
}

func TestAdminVerbHiddenFromStudents(t *testing.T) {
	f := newRouterFixture(t)
	sess := f.session(f.user(t, domain.RoleStudent, "s@y.com"))

	reply := f.dispatch(t, sess, "crear carrera nombre: Medicina codigo: MED")
	if reply.Text != f.es("unrecognized", nil) {
		t.Errorf("Expected the same unrecognized reply as an unknown verb, got %q", reply.Text)
	}

	created, err := f.repo.CareerByCode(context.Background(), "MED")
	if err != nil {
		t.Fatalf("CareerByCode: %v", err)
	}
	if created != nil {
		t.Error("Student input must not create a career")
	}
}

func TestStudentVerbHiddenFromAdmins(t *testing.T) {
	f := newRouterFixture(t)
	sess := f.session(f.user(t, domain.RoleAdmin, "a@y.com"))

	reply := f.dispatch(t, sess, "mis datos")
	if reply.Text != f.es("unrecognized", nil) {
		t.Errorf("Expected unrecognized for student verb as admin, got %q", reply.Text)
	}
}

func TestHelpIsRoleAware(t *testing.T) {
	f := newRouterFixture(t)

	student := f.session(f.user(t, domain.RoleStudent, "s@y.com"))
	if reply := f.dispatch(t, student, "ayuda"); reply.Text != f.es("help_student", nil) {
		t.Errorf("Expected student help, got %q", reply.Text)
	}

	admin := f.session(f.user(t, domain.RoleAdmin, "a@y.com"))
	if reply := f.dispatch(t, admin, "ayuda"); reply.Text != f.es("help_admin", nil) {
		t.Errorf("Expected admin help, got %q", reply.Text)
	}
}

func TestMyData(t *testing.T) {
	f := newRouterFixture(t)
	user := f.user(t, domain.RoleStudent, "ana@example.com")
	sess := f.session(user)

	reply := f.dispatch(t, sess, "mis datos")
	want := f.es("my_data", i18n.Params{
		"name": user.Name, "national_id": user.NationalID, "email": user.Email,
	})
	if reply.Text != want {
		t.Errorf("my data = %q, want %q", reply.Text, want)
	}
}

func TestViewSubjects(t *testing.T) {
	f := newRouterFixture(t)
	sess := f.session(f.user(t, domain.RoleStudent, "s@y.com"))

	if reply := f.dispatch(t, sess, "ver materias"); reply.Text != f.es("no_subjects", nil) {
		t.Errorf("Expected no_subjects, got %q", reply.Text)
	}

	f.subject(t, "MAT101", 4, 30)
	reply := f.dispatch(t, sess, "ver materias")
	if !strings.Contains(reply.Text, "MAT101") || !strings.Contains(reply.Text, "4cr") {
		t.Errorf("Expected subject listing, got %q", reply.Text)
	}
}

func TestCreateSubject(t *testing.T) {
	f := newRouterFixture(t)
	sess := f.session(f.user(t, domain.RoleAdmin, "a@y.com"))

	block := "crear materia nombre: Cálculo codigo: mat101 semestre: 1 creditos: 4 cupos: 30 dias: Lun Mie horas: 08:00-10:00"
	reply := f.dispatch(t, sess, block)
	if reply.Text != f.es("subject_created", i18n.Params{"name": "Cálculo"}) {
		t.Fatalf("Expected subject_created, got %q", reply.Text)
	}

	subject, err := f.repo.SubjectByCode(context.Background(), "MAT101")
	if err != nil {
		t.Fatalf("SubjectByCode: %v", err)
	}
	if subject == nil {
		t.Fatal("Subject was not created")
	}
	if subject.Code != "MAT101" {
		t.Errorf("Expected uppercased code, got %q", subject.Code)
	}
	if subject.Credits != 4 || subject.Seats != 30 || subject.Semester != 1 {
		t.Errorf("Unexpected subject: %+v", subject)
	}

	// Same code again is a conflict, not a validation failure.
	if reply := f.dispatch(t, sess, block); reply.Text != f.es("error_subject_duplicate", nil) {
		t.Errorf("Expected duplicate error, got %q", reply.Text)
	}
}

func TestCreateSubjectRejectsBadBlocks(t *testing.T) {
	f := newRouterFixture(t)
	sess := f.session(f.user(t, domain.RoleAdmin, "a@y.com"))

	tests := []string{
		"crear materia nombre: X codigo: Y",                     // missing fields
		"crear materia nombre: X codigo: Y semestre: uno creditos: 3 cupos: 5 dias: L horas: 8", // bad number
		"crear materia nombre: X codigo: Y semestre: 1 creditos: -3 cupos: 5 dias: L horas: 8",  // negative credits
	}
	for _, input := range tests {
		if reply := f.dispatch(t, sess, input); reply.Text != f.es("error_format_subject", nil) {
			t.Errorf("Expected format error for %q, got %q", input, reply.Text)
		}
	}

	subjects, err := f.repo.ListSubjects(context.Background())
	if err != nil {
		t.Fatalf("ListSubjects: %v", err)
	}
	if len(subjects) != 0 {
		t.Errorf("Rejected blocks must not write; found %d subjects", len(subjects))
	}
}

func TestCreateCareer(t *testing.T) {
	f := newRouterFixture(t)
	sess := f.session(f.user(t, domain.RoleAdmin, "a@y.com"))

	reply := f.dispatch(t, sess, "crear carrera nombre: Medicina codigo: med")
	if reply.Text != f.es("career_created", i18n.Params{"name": "Medicina"}) {
		t.Fatalf("Expected career_created, got %q", reply.Text)
	}

	if reply := f.dispatch(t, sess, "crear carrera nombre: Otra codigo: MED"); reply.Text != f.es("error_career_duplicate", nil) {
		t.Errorf("Expected duplicate error, got %q", reply.Text)
	}

	if reply := f.dispatch(t, sess, "crear carrera nombre: SinCodigo"); reply.Text != f.es("error_format_career", nil) {
		t.Errorf("Expected format error, got %q", reply.Text)
	}
}

func TestListStudents(t *testing.T) {
	f := newRouterFixture(t)
	admin := f.session(f.user(t, domain.RoleAdmin, "a@y.com"))

	if reply := f.dispatch(t, admin, "listar estudiantes"); reply.Text != f.es("no_students", nil) {
		t.Errorf("Expected no_students, got %q", reply.Text)
	}

	f.user(t, domain.RoleStudent, "s1@y.com")
	f.user(t, domain.RoleStudent, "s2@y.com")

	reply := f.dispatch(t, admin, "listar estudiantes")
	if !strings.Contains(reply.Text, "s1@y.com") || !strings.Contains(reply.Text, "s2@y.com") {
		t.Errorf("Expected both students listed, got %q", reply.Text)
	}
}

func TestEnrollAndWithdrawReplies(t *testing.T) {
	f := newRouterFixture(t)
	sess := f.session(f.user(t, domain.RoleStudent, "s@y.com"))
	f.subject(t, "MAT101", 4, 2)

	if reply := f.dispatch(t, sess, "inscribirme en mat101"); reply.Text != f.es("enroll_success", i18n.Params{"name": "Subject MAT101", "code": "MAT101"}) {
		t.Errorf("Expected enroll success, got %q", reply.Text)
	}
	// A seat is still open, so the duplicate check is the one that fires.
	if reply := f.dispatch(t, sess, "inscribirme en MAT101"); reply.Text != f.es("already_enrolled", nil) {
		t.Errorf("Expected already_enrolled, got %q", reply.Text)
	}
	if reply := f.dispatch(t, sess, "inscribirme en NOPE99"); reply.Text != f.es("unrecognized", nil) {
		t.Errorf("Expected unrecognized for unknown subject, got %q", reply.Text)
	}

	other := f.session(f.user(t, domain.RoleStudent, "other@y.com"))
	if reply := f.dispatch(t, other, "inscribirme en MAT101"); reply.Text != f.es("enroll_success", i18n.Params{"name": "Subject MAT101", "code": "MAT101"}) {
		t.Errorf("Expected enroll success for the last seat, got %q", reply.Text)
	}

	// Exhausted subject: the seat check runs before the duplicate check,
	// so even an enrolled student gets the no-seats reply.
	third := f.session(f.user(t, domain.RoleStudent, "third@y.com"))
	if reply := f.dispatch(t, third, "inscribirme en MAT101"); reply.Text != f.es("no_seats", nil) {
		t.Errorf("Expected no_seats on exhausted subject, got %q", reply.Text)
	}
	if reply := f.dispatch(t, sess, "inscribirme en MAT101"); reply.Text != f.es("no_seats", nil) {
		t.Errorf("Expected no_seats before already_enrolled on exhausted subject, got %q", reply.Text)
	}

	if reply := f.dispatch(t, sess, "retirar MAT101"); reply.Text != f.es("withdraw_success", i18n.Params{"name": "Subject MAT101"}) {
		t.Errorf("Expected withdraw success, got %q", reply.Text)
	}
	if reply := f.dispatch(t, sess, "retirar MAT101"); reply.Text != f.es("not_enrolled", nil) {
		t.Errorf("Expected not_enrolled, got %q", reply.Text)
	}
}

func TestAssignCareerReplies(t *testing.T) {
	f := newRouterFixture(t)
	sess := f.session(f.user(t, domain.RoleStudent, "s@y.com"))

	if err := f.repo.CreateCareer(context.Background(), &domain.Career{Code: "ING", Name: "Ingeniería"}); err != nil {
		t.Fatalf("CreateCareer: %v", err)
	}

	if reply := f.dispatch(t, sess, "elegir carrera XXX"); reply.Text != f.es("career_not_found", nil) {
		t.Errorf("Expected career_not_found, got %q", reply.Text)
	}
	if reply := f.dispatch(t, sess, "elegir carrera ing"); reply.Text != f.es("career_assigned", i18n.Params{"name": "Ingeniería"}) {
		t.Errorf("Expected career_assigned, got %q", reply.Text)
	}
	if reply := f.dispatch(t, sess, "elegir carrera ING"); reply.Text != f.es("career_already_assigned", nil) {
		t.Errorf("Expected career_already_assigned, got %q", reply.Text)
	}
}

func TestTranscript(t *testing.T) {
	f := newRouterFixture(t)
	sess := f.session(f.user(t, domain.RoleStudent, "s@y.com"))

	if reply := f.dispatch(t, sess, "constancia"); reply.Text != f.es("transcript_empty", nil) {
		t.Errorf("Expected transcript_empty, got %q", reply.Text)
	}

	f.subject(t, "MAT101", 4, 10)
	f.dispatch(t, sess, "inscribirme en MAT101")

	reply := f.dispatch(t, sess, "constancia")
	if !reply.IsFile() {
		t.Fatalf("Expected file reply, got %q", reply.Text)
	}
	a := reply.Attachment
	if a.Filename != "transcript-"+testTerm+".txt" {
		t.Errorf("Unexpected filename %q", a.Filename)
	}
	if a.Caption != f.es("transcript_caption", i18n.Params{"term": testTerm}) {
		t.Errorf("Unexpected caption %q", a.Caption)
	}
	body := string(a.Data)
	if !strings.Contains(body, "MAT101") || !strings.Contains(body, "Total credits: 4") {
		t.Errorf("Unexpected transcript body:\n%s", body)
	}
}

func TestEnglishVerbsInEnglishLocale(t *testing.T) {
	f := newRouterFixture(t)
	sess := f.session(f.user(t, domain.RoleStudent, "s@y.com"))
	sess.Locale = "en"
	f.subject(t, "MAT101", 4, 10)

	reply := f.dispatch(t, sess, "enroll in MAT101")
	want := f.msgs.T("en", "enroll_success", i18n.Params{"name": "Subject MAT101", "code": "MAT101"})
	if reply.Text != want {
		t.Errorf("Expected english enroll success, got %q", reply.Text)
	}

	// Spanish verbs do not match while the session is in English.
	if reply := f.dispatch(t, sess, "ver materias"); reply.Text != f.msgs.T("en", "unrecognized", nil) {
		t.Errorf("Expected unrecognized for spanish verb in english locale, got %q", reply.Text)
	}
}
