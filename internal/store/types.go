package store

// ComponentID is a type-safe identifier for components.
type ComponentID int64

// EndpointID is a type-safe identifier for API endpoints.
type EndpointID int64

// ComponentType classifies a component by its architectural role.
type ComponentType string

const (
	TypeAPIEndpoint     ComponentType = "api_endpoint"
	TypeController      ComponentType = "controller"
	TypeServlet         ComponentType = "servlet"
	TypeService         ComponentType = "service"
	TypeEJB             ComponentType = "ejb"
	TypeRepository      ComponentType = "repository"
	TypeModel           ComponentType = "model"
	TypeEntity          ComponentType = "entity"
	TypeStoredProcedure ComponentType = "stored_procedure"
	TypeTrigger         ComponentType = "trigger"
	TypeFunction        ComponentType = "function"
	TypeUtil            ComponentType = "util"
	TypeConfig          ComponentType = "config"
	TypeMigration       ComponentType = "migration"
)

// DependencyType classifies how one component depends on another.
type DependencyType string

const (
	DepMethodCall  DependencyType = "method_call"
	DepImport      DependencyType = "import"
	DepInheritance DependencyType = "inheritance"
	DepInjection   DependencyType = "injection"
	DepDataAccess  DependencyType = "data_access"
	DepReference   DependencyType = "reference"
)

// Component is one inventoried source component of an application.
// Written by the upstream scanner; read-only here.
type Component struct {
	ID            ComponentID   `json:"id"`
	AppID         int64         `json:"app_id"`
	Name          string        `json:"name"`
	Type          ComponentType `json:"type"`
	QualifiedName string        `json:"qualified_name"`
	LOC           int           `json:"loc"`
	Complexity    int           `json:"cyclomatic_complexity"`
	CouplingScore float64       `json:"coupling_score"`
	CohesionScore float64       `json:"cohesion_score"`
}

// DependencyEdge is a directed dependency between two components.
// TargetID is zero when the scanner could not resolve the target;
// such edges are skipped by every consumer of the snapshot.
type DependencyEdge struct {
	SourceID ComponentID    `json:"source_component_id"`
	TargetID ComponentID    `json:"target_component_id,omitempty"`
	Type     DependencyType `json:"dependency_type"`
	Weight   float64        `json:"weight"`
}

// APIEndpoint is an exposed route owned by a component.
// ComponentID is zero when ownership could not be resolved.
type APIEndpoint struct {
	ID          EndpointID  `json:"id"`
	AppID       int64       `json:"app_id"`
	ComponentID ComponentID `json:"component_id,omitempty"`
	Method      string      `json:"method"`
	Path        string      `json:"path"`
}

// Snapshot is the read-only view of one application's graph.
// It is a disposable per-invocation copy; nothing downstream mutates it.
type Snapshot struct {
	AppID      int64            `json:"app_id"`
	Components []Component      `json:"components"`
	Edges      []DependencyEdge `json:"edges"`
	Endpoints  []APIEndpoint    `json:"endpoints"`
}

// ComponentByID returns the component with the given id, or nil.
func (s *Snapshot) ComponentByID(id ComponentID) *Component {
	for i := range s.Components {
		if s.Components[i].ID == id {
			return &s.Components[i]
		}
	}
	return nil
}
