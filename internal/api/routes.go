package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mvelasco/metasim/internal/api/handlers"
	"github.com/mvelasco/metasim/internal/repository"
	"github.com/mvelasco/metasim/internal/simulation"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, sweepRepo repository.SweepRepository, sweepSvc simulation.SweepService) {
	simHandler := handlers.NewSimulationHandler(sweepRepo, sweepSvc)

	huma.Register(api, huma.Operation{
		OperationID: "simulate",
		Method:      http.MethodPost,
		Path:        "/api/simulate",
		Summary:     "Run a synchronous simulation",
		Description: "Solves the Helmholtz problem for each frequency and source over the given mesh and returns the attenuation curve",
		Tags:        []string{"Simulation"},
	}, simHandler.Simulate)

	huma.Register(api, huma.Operation{
		OperationID: "createSweep",
		Method:      http.MethodPost,
		Path:        "/api/sweeps",
		Summary:     "Create a new sweep",
		Description: "Persists a sweep request (explicit frequencies or a band for the resonator designer) and starts background processing",
		Tags:        []string{"Sweep"},
	}, simHandler.CreateSweep)

	huma.Register(api, huma.Operation{
		OperationID: "getSweepStatus",
		Method:      http.MethodGet,
		Path:        "/api/sweeps/{id}/status",
		Summary:     "Get sweep status",
		Description: "Returns the current status and progress of a sweep",
		Tags:        []string{"Sweep"},
	}, simHandler.GetSweepStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getSweepResults",
		Method:      http.MethodGet,
		Path:        "/api/sweeps/{id}/results",
		Summary:     "Get sweep results",
		Description: "Returns the completed attenuation curve in frequency order",
		Tags:        []string{"Sweep"},
	}, simHandler.GetSweepResults)

	huma.Register(api, huma.Operation{
		OperationID: "listMaterials",
		Method:      http.MethodGet,
		Path:        "/api/materials",
		Summary:     "List materials",
		Description: "Returns the available substrate materials",
		Tags:        []string{"Simulation"},
	}, simHandler.ListMaterials)
}
