package i18n

var english = map[string]string{
	"welcome":               "👋 Welcome to the academic system.",
	"role_menu":             "👋 Welcome to the academic system.\n1. Student\n2. Administrator",
	"ask_admin_secret":      "🔑 Enter the administrator key:",
	"admin_secret_rejected": "❌ Wrong key.",

	"opt_registered": "already registered",
	"opt_register":   "register",
	"choice_menu":    "How do you want to continue?\n- already registered\n- register",

	"ask_email":     "📧 Enter your email:",
	"ask_id":        "🪪 Enter your national id:",
	"ask_name":      "✏️ Enter your full name:",
	"invalid_email": "⚠️ That email does not look valid, it must contain @. Try again:",
	"invalid_id":    "⚠️ The national id must contain digits only. Try again:",

	"session_started":          "✅ Session started. Type \"help\" to see the commands.",
	"unrecognized":             "🤔 I did not understand. Type \"help\" to see the commands.",
	"already_exist":            "ℹ️ That email is already registered; you are now logged into the existing account.",
	"register_success_student": "🎓 Registration complete. Welcome, {name}.",
	"register_success_admin":   "🛠️ Registered as administrator. Welcome, {name}.",
	"register_fail":            "❌ Registration failed. Please start over.",
	"admin_required":           "❌ That account does not have administrator permissions.",

	"lang_switched": "🌐 Language switched to English.",

	"cmd_help":          "help",
	"cmd_my_data":       "my data",
	"cmd_view_subjects": "view subjects",
	"cmd_enroll":        "enroll in",
	"cmd_withdraw":      "withdraw",
	"cmd_assign_career": "choose career",
	"cmd_transcript":    "transcript",
	"cmd_create_subject": "create subject",
	"cmd_create_career":  "create career",
	"cmd_list_students":  "list students",

	"help_student": "Commands:\n- my data\n- view subjects\n- enroll in <code>\n- withdraw <code>\n- choose career <code>\n- transcript",
	"help_admin":   "Commands:\n- create subject name: ... code: ... semester: ... credits: ... seats: ... days: ... hours: ...\n- create career name: ... code: ...\n- list students",

	"field_name":     "name",
	"field_code":     "code",
	"field_semester": "semester",
	"field_credits":  "credits",
	"field_seats":    "seats",
	"field_days":     "days",
	"field_hours":    "hours",

	"error_format_subject":    "⚠️ Invalid format. Use: create subject name: ... code: ... semester: ... credits: ... seats: ... days: ... hours: ...",
	"subject_created":         "📘 Subject {name} created.",
	"error_subject_duplicate": "❌ A subject with that code already exists.",
	"error_format_career":     "⚠️ Invalid format. Use: create career name: ... code: ...",
	"career_created":          "🎓 Career {name} created.",
	"error_career_duplicate":  "❌ A career with that code already exists.",
	"students_header":         "👥 Registered students:",
	"no_students":             "There are no registered students.",

	"my_data":      "🧾 Name: {name}\nNational id: {national_id}\nEmail: {email}",
	"no_subjects":  "There are no subjects available.",
	"subject_line": "📘 {name} ({code}) – {credits}cr",

	"no_seats":         "❌ No seats left in that subject.",
	"already_enrolled": "ℹ️ You are already enrolled in that subject.",
	"enroll_success":   "✅ Enrolled in {name} ({code}).",
	"enroll_error":     "❌ Enrollment could not be completed.",
	"not_enrolled":     "ℹ️ You are not enrolled in that subject.",
	"withdraw_success": "✅ Subject {name} withdrawn.",
	"withdraw_error":   "❌ The subject could not be withdrawn.",

	"career_assigned":         "🎓 Career {name} assigned.",
	"career_already_assigned": "ℹ️ You already have a career assigned; it cannot be changed.",
	"career_not_found":        "❌ No career exists with that code.",

	"transcript_caption": "📄 Enrollment transcript, term {term}.",
	"transcript_empty":   "You have no subjects enrolled this term.",

	"error_generic": "❌ Something went wrong, try again later.",
}
