package honeycomb

// Dataset is a Honeycomb dataset as returned by the datasets API.
type Dataset struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Description     string `json:"description"`
	CreatedAt       string `json:"created_at"`
	LastWrittenAt   string `json:"last_written_at"`
	RegularColumns  int    `json:"regular_columns_count"`
	ExpandJSONDepth int    `json:"expand_json_depth"`
}

// Column is one column of a dataset's schema.
type Column struct {
	ID          string `json:"id"`
	KeyName     string `json:"key_name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Hidden      bool   `json:"hidden"`
	CreatedAt   string `json:"created_at"`
	LastWritten string `json:"last_written"`
}

// Board is a saved collection of queries.
type Board struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Style       string       `json:"style"`
	Queries     []BoardQuery `json:"queries"`
}

// BoardQuery is one query panel on a board.
type BoardQuery struct {
	Caption           string `json:"caption"`
	Dataset           string `json:"dataset"`
	QueryID           string `json:"query_id"`
	QueryAnnotationID string `json:"query_annotation_id"`
	QueryStyle        string `json:"query_style"`
}

// Marker is a point-in-time annotation on a dataset (deploys, incidents).
type Marker struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
	CreatedAt string `json:"created_at"`
}

// Recipient is a notification target for triggers and SLO burn alerts.
type Recipient struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Target    string `json:"target"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Trigger is a threshold alert on a dataset query.
type Trigger struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Threshold   *TriggerThreshold `json:"threshold,omitempty"`
	Frequency   int               `json:"frequency"`
	Disabled    bool              `json:"disabled"`
	Triggered   bool              `json:"triggered"`
	Recipients  []Recipient       `json:"recipients,omitempty"`
}

// TriggerThreshold is the alerting condition of a trigger.
type TriggerThreshold struct {
	Op    string  `json:"op"`
	Value float64 `json:"value"`
}

// SLO is a service level objective defined over a dataset.
type SLO struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	TimePeriodDays   int     `json:"time_period_days"`
	TargetPerMillion int     `json:"target_per_million"`
	SLI              *SLIRef `json:"sli,omitempty"`
	ResetAt          string  `json:"reset_at"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// SLIRef names the derived column backing an SLO.
type SLIRef struct {
	Alias string `json:"alias"`
}

// queryCreateResponse is the response to creating a query definition.
type queryCreateResponse struct {
	ID string `json:"id"`
}

// queryResultCreateRequest starts an execution of a stored query.
type queryResultCreateRequest struct {
	QueryID       string `json:"query_id"`
	DisableSeries bool   `json:"disable_series"`
	Limit         int    `json:"limit,omitempty"`
}

// queryResultResponse is the (possibly still running) result of a query
// execution. Rows live under data.results[].data.
type queryResultResponse struct {
	ID       string `json:"id"`
	Complete bool   `json:"complete"`
	Data     struct {
		Results []struct {
			Data map[string]any `json:"data"`
		} `json:"results"`
	} `json:"data"`
	Links struct {
		QueryURL      string `json:"query_url"`
		GraphImageURL string `json:"graph_image_url"`
	} `json:"links"`
}

// apiError is the error envelope the Honeycomb API returns on failures.
type apiError struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Title  string `json:"title"`
}
