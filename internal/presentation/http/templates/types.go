package templates

// SiteName is shown in the header and page titles.
const SiteName = "Job Board"

// Viewer describes the logged-in user for the navigation bar.
type Viewer struct {
	LoggedIn bool
	Name     string
	Admin    bool
}

// Notice is a one-off message shown above the page content.
type Notice struct {
	Kind    string
	Message string
}

// Page carries the values every layout render needs.
type Page struct {
	Title  string
	Viewer Viewer
	Notice *Notice
}

// JobCard is one entry of the job list.
type JobCard struct {
	URL      string
	Title    string
	Company  string
	Location string
	Excerpt  string
	Posted   string
}

// RelatedSearch links to a suggested query.
type RelatedSearch struct {
	Term string
	URL  string
}

// JobListData bundles the job list page values.
type JobListData struct {
	Query     string
	Jobs      []JobCard
	Related   []RelatedSearch
	CanCreate bool
}

// ApplicantRow is one application shown to a job's manager.
type ApplicantRow struct {
	Name       string
	Email      string
	ResumeName string
	ResumeURL  string
	AppliedAt  string
}

// JobDetailData bundles the job detail page values.
type JobDetailData struct {
	Title           string
	Company         string
	Location        string
	Posted          string
	DescriptionHTML string
	EditURL         string
	DeleteURL       string
	ApplyURL        string
	CanManage       bool
	CanApply        bool
	HasApplied      bool
	LoginURL        string
	Applicants      []ApplicantRow
}

// JobFormValues mirrors the job form fields.
type JobFormValues struct {
	Title       string
	Company     string
	Location    string
	Description string
}

// JobFormData bundles the create and edit form values.
type JobFormData struct {
	Heading   string
	Action    string
	Submit    string
	CancelURL string
	Values    JobFormValues
	Errors    map[string]string
}

// JobDeleteData bundles the delete confirmation values.
type JobDeleteData struct {
	Title     string
	Action    string
	CancelURL string
}

// ApplyData bundles the application form values.
type ApplyData struct {
	JobTitle  string
	Action    string
	CancelURL string
	Accept    string
	MaxSize   string
	Error     string
}

// PostCard is one entry of the posts feed.
type PostCard struct {
	URL     string
	Excerpt string
	Posted  string
}

// PostListData bundles the posts feed values.
type PostListData struct {
	Posts     []PostCard
	CanCreate bool
}

// PostData bundles a single post page.
type PostData struct {
	HTML   string
	Slug   string
	Posted string
}

// PostFormData bundles the new post form values.
type PostFormData struct {
	Content string
	Errors  map[string]string
}

// RegisterData bundles the sign-up form values.
type RegisterData struct {
	Email  string
	Name   string
	Error  string
	Errors map[string]string
}

// LoginData bundles the login form values.
type LoginData struct {
	Email string
	Next  string
	Error string
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	StatusLabel string
	Message     string
	BackURL     string
}
