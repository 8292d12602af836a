package mocks

//go:generate mockgen -destination=./mock_report_store.go -package=mocks github.com/rxtech-lab/argo-report/internal/store ReportStore
