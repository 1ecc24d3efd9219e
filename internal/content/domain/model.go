package domain

// Kind names a family of content documents. It keys cache invalidation and
// the activity log.
type Kind string

const (
	KindServices       Kind = "services"
	KindClients        Kind = "clients"
	KindProjects       Kind = "projects"
	KindServiceDetails Kind = "service_details"
	KindLogos          Kind = "logos"
)

// Service is one card on the services page. Cards live together in the
// "cards" array of the content/services document.
type Service struct {
	ID          string `json:"id" firestore:"id"`
	Title       string `json:"title" firestore:"title"`
	Alt         string `json:"alt" firestore:"alt"`
	Description string `json:"description" firestore:"description"`
	Src         string `json:"src" firestore:"src"`
}

type Feedback struct {
	Message string `json:"message" firestore:"message"`
	Rating  int    `json:"rating" firestore:"rating"`
}

type Client struct {
	ID          string   `json:"id" firestore:"id"`
	CompanyName string   `json:"companyName" firestore:"companyName"`
	Industry    string   `json:"industry" firestore:"industry"`
	Product     string   `json:"product" firestore:"product"`
	ScopeOfWork string   `json:"scopeOfWork" firestore:"scopeOfWork"`
	Description string   `json:"description" firestore:"description"`
	Feedback    Feedback `json:"feedback" firestore:"feedback"`
	LogoURL     string   `json:"logoUrl" firestore:"logoUrl"`
	ImageURL    string   `json:"imageUrl" firestore:"imageUrl"`
}

type Project struct {
	ID          string `json:"id" firestore:"id"`
	ClientName  string `json:"clientName" firestore:"clientName"`
	ProjectType string `json:"projectType" firestore:"projectType"`
	Year        int    `json:"year" firestore:"year"`
	Description string `json:"description" firestore:"description"`
	ImageURL    string `json:"imageUrl" firestore:"imageUrl"`
}

// ServiceDetail backs the /services/:slug page. Its ID equals the ID of the
// service card it describes.
type ServiceDetail struct {
	ID          string   `json:"id" firestore:"id"`
	Title       string   `json:"title" firestore:"title"`
	Src         string   `json:"src" firestore:"src"`
	Images      []string `json:"images" firestore:"images"`
	TechStack   []string `json:"techStack" firestore:"techStack"`
	Description string   `json:"description" firestore:"description"`
	UpdatedAt   int64    `json:"updatedAt" firestore:"updatedAt"`
}

const (
	LogoTypeURL     = "url"
	LogoTypeStorage = "storage"
)

// Logo is a tech-stack badge referenced by ServiceDetail.TechStack.
type Logo struct {
	ID          string `json:"id" firestore:"-"`
	Title       string `json:"title" firestore:"title"`
	URL         string `json:"url" firestore:"url"`
	Type        string `json:"type" firestore:"type"`
	StoragePath string `json:"storagePath,omitempty" firestore:"storagePath"`
	CreatedAt   int64  `json:"createdAt" firestore:"createdAt"`
}

// ClientForm is the editable part of a Client; images travel separately.
type ClientForm struct {
	CompanyName string
	Industry    string
	Product     string
	ScopeOfWork string
	Description string
	Feedback    Feedback
}

type ProjectForm struct {
	ClientName  string
	ProjectType string
	Year        int
	Description string
}

type ServiceForm struct {
	Title       string
	Alt         string
	Description string
}

// ServiceDetailForm carries an admin save of a detail page. KeepImages lists
// the already stored additional images that survive the edit; nil keeps them
// all, an empty non-nil list drops them all.
type ServiceDetailForm struct {
	Description string
	TechStack   []string
	KeepImages  []string
}

type LogoForm struct {
	Title string
	URL   string
}
