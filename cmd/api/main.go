package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine-go/internal/repository/postgresql"
	advanceService "github.com/cmlabs-hris/payroll-engine-go/internal/service/advance"
	employeeService "github.com/cmlabs-hris/payroll-engine-go/internal/service/employee"
	loanService "github.com/cmlabs-hris/payroll-engine-go/internal/service/loan"
	payrunService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payrun"
	rateService "github.com/cmlabs-hris/payroll-engine-go/internal/service/rates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "payroll-engine"),
	)

	rateRepo := postgresql.NewRateRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	payRunRepo := postgresql.NewPayRunRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	rateSvc := rateService.NewRateService(rateRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	loanSvc := loanService.NewLoanService(db, loanRepo, employeeRepo)
	advanceSvc := advanceService.NewAdvanceService(advanceRepo, employeeRepo)
	payRunSvc := payrunService.NewPayRunService(
		db,
		payRunRepo,
		employeeRepo,
		attendanceRepo,
		loanRepo,
		advanceRepo,
		rateSvc,
		logger,
	)

	payRunHandler := appHTTP.NewPayRunHandler(payRunSvc)
	loanHandler := appHTTP.NewLoanHandler(loanSvc)
	advanceHandler := appHTTP.NewAdvanceHandler(advanceSvc)
	rateHandler := appHTTP.NewRateHandler(rateSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)

	router := appHTTP.NewRouter(
		jwtService,
		payRunHandler,
		loanHandler,
		advanceHandler,
		rateHandler,
		employeeHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
