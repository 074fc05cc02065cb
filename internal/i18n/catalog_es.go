package i18n

var spanish = map[string]string{
	// Role selection and admin secret.
	"welcome":               "👋 Bienvenido al sistema académico.",
	"role_menu":             "👋 Bienvenido al sistema académico.\n1. Estudiante\n2. Administrador",
	"ask_admin_secret":      "🔑 Ingresa la clave de administrador:",
	"admin_secret_rejected": "❌ Clave incorrecta.",

	// Credential choice.
	"opt_registered": "ya registrado",
	"opt_register":   "registrarme",
	"choice_menu":    "¿Cómo deseas continuar?\n- ya registrado\n- registrarme",

	// Verification and registration prompts.
	"ask_email":     "📧 Ingresa tu correo:",
	"ask_id":        "🪪 Ingresa tu cédula:",
	"ask_name":      "✏️ Ingresa tu nombre completo:",
	"invalid_email": "⚠️ Ese correo no parece válido, debe contener @. Intenta de nuevo:",
	"invalid_id":    "⚠️ La cédula debe contener solo dígitos. Intenta de nuevo:",

	"session_started":          "✅ Sesión iniciada. Escribe \"ayuda\" para ver los comandos.",
	"unrecognized":             "🤔 No te entendí. Escribe \"ayuda\" para ver los comandos.",
	"already_exist":            "ℹ️ Ese correo ya está registrado; iniciamos sesión con tu cuenta existente.",
	"register_success_student": "🎓 Registro exitoso. Bienvenido, {name}.",
	"register_success_admin":   "🛠️ Registro exitoso como administrador. Bienvenido, {name}.",
	"register_fail":            "❌ No se pudo completar el registro. Vuelve a empezar.",
	"admin_required":           "❌ Esa cuenta no tiene permisos de administrador.",

	"lang_switched": "🌐 Idioma cambiado a español.",

	// Command phrases (matched against normalized input).
	"cmd_help":          "ayuda",
	"cmd_my_data":       "mis datos",
	"cmd_view_subjects": "ver materias",
	"cmd_enroll":        "inscribirme en",
	"cmd_withdraw":      "retirar",
	"cmd_assign_career": "elegir carrera",
	"cmd_transcript":    "constancia",
	"cmd_create_subject": "crear materia",
	"cmd_create_career":  "crear carrera",
	"cmd_list_students":  "listar estudiantes",

	"help_student": "Comandos:\n- mis datos\n- ver materias\n- inscribirme en <código>\n- retirar <código>\n- elegir carrera <código>\n- constancia",
	"help_admin":   "Comandos:\n- crear materia nombre: ... codigo: ... semestre: ... creditos: ... cupos: ... dias: ... horas: ...\n- crear carrera nombre: ... codigo: ...\n- listar estudiantes",

	// Structured block field labels.
	"field_name":     "nombre",
	"field_code":     "codigo",
	"field_semester": "semestre",
	"field_credits":  "creditos",
	"field_seats":    "cupos",
	"field_days":     "dias",
	"field_hours":    "horas",

	// Admin command outcomes.
	"error_format_subject":    "⚠️ Formato inválido. Usa: crear materia nombre: ... codigo: ... semestre: ... creditos: ... cupos: ... dias: ... horas: ...",
	"subject_created":         "📘 Materia {name} creada.",
	"error_subject_duplicate": "❌ Ya existe una materia con ese código.",
	"error_format_career":     "⚠️ Formato inválido. Usa: crear carrera nombre: ... codigo: ...",
	"career_created":          "🎓 Carrera {name} creada.",
	"error_career_duplicate":  "❌ Ya existe una carrera con ese código.",
	"students_header":         "👥 Estudiantes registrados:",
	"no_students":             "No hay estudiantes registrados.",

	// Student command outcomes.
	"my_data":      "🧾 Nombre: {name}\nCédula: {national_id}\nCorreo: {email}",
	"no_subjects":  "No hay materias disponibles.",
	"subject_line": "📘 {name} ({code}) – {credits}cr",

	"no_seats":         "❌ No quedan cupos en esa materia.",
	"already_enrolled": "ℹ️ Ya estás inscrito en esa materia.",
	"enroll_success":   "✅ Inscripción exitosa en {name} ({code}).",
	"enroll_error":     "❌ No se pudo completar la inscripción.",
	"not_enrolled":     "ℹ️ No estás inscrito en esa materia.",
	"withdraw_success": "✅ Materia {name} retirada.",
	"withdraw_error":   "❌ No se pudo retirar la materia.",

	"career_assigned":         "🎓 Carrera {name} asignada.",
	"career_already_assigned": "ℹ️ Ya tienes una carrera asignada; no se puede cambiar.",
	"career_not_found":        "❌ No existe una carrera con ese código.",

	"transcript_caption": "📄 Constancia de matrícula, periodo {term}.",
	"transcript_empty":   "No tienes materias inscritas este periodo.",

	"error_generic": "❌ Ocurrió un error, intenta de nuevo más tarde.",
}
