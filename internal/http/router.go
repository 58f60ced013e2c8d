package http

import (
	"database/sql"
	"net/http"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/appointment"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/auth"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/config"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/dashboard"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/patient"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/payer"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/practitioner"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/registration"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/telemetry"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/visit"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

// Dependencies are the shared resources the routes are built from.
// Publisher, FeedCache and Metrics may be nil.
type Dependencies struct {
	DB        *sql.DB
	Config    *config.Config
	Guard     *auth.Guard
	Publisher messaging.PublisherInterface
	FeedCache appointment.FeedCache
	Metrics   *telemetry.Metrics
	Logger    *zap.Logger
}

// SetupRouter initializes all routes for the application
func SetupRouter(d Dependencies) http.Handler {
	cfg, g, log := d.Config, d.Guard, d.Logger

	practitionerService := practitioner.NewService(practitioner.NewRepository(d.DB), log)
	practitionerHandler := practitioner.NewHandler(practitionerService, log)

	payerHandler := payer.NewHandler(payer.NewService(payer.NewRepository(d.DB), log), log)

	visitService := visit.NewService(
		visit.NewRepository(d.DB),
		practitionerService,
		visit.RecordPolicy{Editable: cfg.ClinicalRecordsEditable},
		d.Publisher, d.Metrics, log,
	)
	visitHandler := visit.NewHandler(visitService, log)

	patientService := patient.NewService(
		patient.NewRepository(d.DB),
		registration.NewAssigner(registration.NewCounterTable(), log),
		visitService,
		d.Publisher, d.Metrics, log,
	)
	patientHandler := patient.NewHandler(patientService, log)

	appointmentService := appointment.NewService(
		appointment.NewRepository(d.DB),
		appointment.Options{
			Policy:   appointment.TransitionPolicy{Strict: cfg.AppointmentStrictTransitions},
			FeedMode: cfg.AppointmentFeedMode,
		},
		d.FeedCache, d.Publisher, d.Metrics, log,
	)
	appointmentHandler := appointment.NewHandler(appointmentService, log)

	dashboardHandler := dashboard.NewHandler(dashboard.NewRepository(d.DB), log)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware(cfg.ServiceName))
	r.Use(RequestID)
	r.Use(AccessLog(log, d.Metrics))
	r.Use(Recovery(log))

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"` + cfg.ServiceName + `"}`))
	}).Methods(http.MethodGet)

	// Patients
	r.Handle("/patients", g.Protect("patient:view", patientHandler.List)).Methods(http.MethodGet)
	r.Handle("/patients", g.Protect("patient:create", patientHandler.Create)).Methods(http.MethodPost)
	r.Handle("/patients/{id:[0-9]+}", g.Protect("patient:view", patientHandler.Get)).Methods(http.MethodGet)
	r.Handle("/patients/{id:[0-9]+}", g.Protect("patient:update", patientHandler.Update)).Methods(http.MethodPut)

	// Clinical visits and exams
	r.Handle("/patients/{patientID:[0-9]+}/visits", g.Protect("visit:create", visitHandler.Create)).Methods(http.MethodPost)
	r.Handle("/visits/{visitID:[0-9]+}", g.Protect("visit:update", visitHandler.Update)).Methods(http.MethodPut)
	r.Handle("/visits/{visitID:[0-9]+}/exam", g.Protect("visit:view", visitHandler.GetExam)).Methods(http.MethodGet)
	r.Handle("/visits/{visitID:[0-9]+}/exam", g.Protect("visit:update", visitHandler.UpdateExam)).Methods(http.MethodPut)
	r.Handle("/exams/acuity-choices", g.Protect("visit:view", visitHandler.AcuityChoices)).Methods(http.MethodGet)

	// Appointments; fixed paths are registered before {id}
	r.Handle("/appointments", g.Protect("appointment:view", appointmentHandler.List)).Methods(http.MethodGet)
	r.Handle("/appointments", g.Protect("appointment:create", appointmentHandler.Create)).Methods(http.MethodPost)
	r.Handle("/appointments/draft", g.Protect("appointment:create", appointmentHandler.Draft)).Methods(http.MethodGet)
	r.Handle("/appointments/feed", g.Protect("appointment:view", appointmentHandler.Feed)).Methods(http.MethodGet)
	r.Handle("/appointments/{id:[0-9]+}", g.Protect("appointment:view", appointmentHandler.Get)).Methods(http.MethodGet)
	r.Handle("/appointments/{id:[0-9]+}", g.Protect("appointment:update", appointmentHandler.Update)).Methods(http.MethodPatch)

	// Catalogs
	r.Handle("/practitioners", g.Protect("catalog:view", practitionerHandler.List)).Methods(http.MethodGet)
	r.Handle("/practitioners", g.Protect("catalog:manage", practitionerHandler.Create)).Methods(http.MethodPost)
	r.Handle("/practitioners/{id:[0-9]+}", g.Protect("catalog:view", practitionerHandler.Get)).Methods(http.MethodGet)
	r.Handle("/practitioners/{id:[0-9]+}", g.Protect("catalog:manage", practitionerHandler.Update)).Methods(http.MethodPut)
	r.Handle("/practitioners/{id:[0-9]+}", g.Protect("catalog:manage", practitionerHandler.Delete)).Methods(http.MethodDelete)

	r.Handle("/insurance-payers", g.Protect("catalog:view", payerHandler.List)).Methods(http.MethodGet)
	r.Handle("/insurance-payers", g.Protect("catalog:manage", payerHandler.Create)).Methods(http.MethodPost)
	r.Handle("/insurance-payers/{id:[0-9]+}", g.Protect("catalog:view", payerHandler.Get)).Methods(http.MethodGet)
	r.Handle("/insurance-payers/{id:[0-9]+}", g.Protect("catalog:manage", payerHandler.Update)).Methods(http.MethodPut)
	r.Handle("/insurance-payers/{id:[0-9]+}", g.Protect("catalog:manage", payerHandler.Delete)).Methods(http.MethodDelete)

	r.Handle("/dashboard", g.Protect("dashboard:view", dashboardHandler.Get)).Methods(http.MethodGet)

	return CORSMiddleware(cfg.Origins())(r)
}
