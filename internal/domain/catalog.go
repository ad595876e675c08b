package domain

// Provider endpoint families. The v2 endpoints take ISO-8601 date ranges, the
// stats endpoints take compact YYYYMMDD ranges with the metric in the path.
const (
	EndpointTimelines         = "v2/analytics/timelines"
	EndpointAggregation       = "v2/analytics/aggregation"
	EndpointDistribution      = "v2/analytics/distribution"
	EndpointStatsTimeline     = "stats/timeline"
	EndpointStatsDistribution = "stats/distribution"
)

type Aggregate string

const (
	// AggregateLast reads the value of the most recent point (e.g. followers).
	AggregateLast Aggregate = "last"
	// AggregateSum sums all points in the period (e.g. impressions).
	AggregateSum Aggregate = "sum"
)

// MetricSpec describes one provider metric: where to fetch it, how the payload
// is shaped, and how the period value is derived from the series.
type MetricSpec struct {
	Name      string       `json:"name"`
	Label     string       `json:"label"`
	Metric    string       `json:"metric"`
	Endpoint  string       `json:"endpoint"`
	Shape     PayloadShape `json:"shape"`
	Aggregate Aggregate    `json:"aggregate"`
	Subject   string       `json:"subject,omitempty"`

	// DeltaMetric names the companion day-over-day change metric used to split
	// the period into gained/lost, when the provider exposes one.
	DeltaMetric string `json:"delta_metric,omitempty"`
}

// NetworkCatalog is the ordered set of metrics and breakdowns one report page
// shows. Order is configuration order and drives report section layout.
type NetworkCatalog struct {
	Network     Network
	ProbeMetric string
	Metrics     []MetricSpec
	Breakdowns  []MetricSpec
}

var catalogs = map[Network]NetworkCatalog{
	NetworkInstagram: {
		Network:     NetworkInstagram,
		ProbeMetric: "followers",
		Metrics: []MetricSpec{
			{Name: "followers", Label: "Followers", Metric: "followers", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateLast, Subject: "account", DeltaMetric: "delta_followers"},
			{Name: "reach", Label: "Reach", Metric: "reach", Endpoint: EndpointAggregation, Shape: ShapeTimeline, Aggregate: AggregateSum, Subject: "account"},
		},
		Breakdowns: []MetricSpec{
			{Name: "age", Label: "Age distribution", Metric: "age", Endpoint: EndpointDistribution, Shape: ShapeDistribution, Subject: "account"},
			{Name: "gender", Label: "Gender distribution", Metric: "gender", Endpoint: EndpointDistribution, Shape: ShapeDistribution, Subject: "account"},
			{Name: "country", Label: "Followers by country", Metric: "country", Endpoint: EndpointDistribution, Shape: ShapeDistribution, Subject: "account"},
		},
	},
	NetworkLinkedIn: {
		Network:     NetworkLinkedIn,
		ProbeMetric: "Followers",
		Metrics: []MetricSpec{
			{Name: "followers", Label: "Followers", Metric: "Followers", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateLast, Subject: "account", DeltaMetric: "DeltaFollowers"},
			{Name: "impressions", Label: "Impressions", Metric: "impressionCount", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateSum, Subject: "account"},
		},
		Breakdowns: []MetricSpec{
			{Name: "industry", Label: "Followers by industry", Metric: "aggregatedFollowerCountsByIndustry", Endpoint: EndpointDistribution, Shape: ShapeDistribution, Subject: "account"},
			{Name: "job_function", Label: "Followers by job function", Metric: "followerCountsByFunction", Endpoint: EndpointDistribution, Shape: ShapeDistribution, Subject: "account"},
			{Name: "country", Label: "Followers by country", Metric: "followerCountsByGeoCountry", Endpoint: EndpointDistribution, Shape: ShapeDistribution, Subject: "account"},
		},
	},
	NetworkFacebook: {
		Network:     NetworkFacebook,
		ProbeMetric: "pageFollows",
		Metrics: []MetricSpec{
			{Name: "followers", Label: "Page follows", Metric: "pageFollows", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateLast, Subject: "account"},
			{Name: "likes", Label: "Likes", Metric: "likes", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateSum, Subject: "account"},
			{Name: "impressions", Label: "Page impressions", Metric: "pageImpressions", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateSum, Subject: "account"},
			{Name: "page_views", Label: "Page views", Metric: "pageViews", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateSum, Subject: "account"},
			{Name: "posts", Label: "Posts", Metric: "postsCount", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateSum, Subject: "account"},
		},
		Breakdowns: []MetricSpec{
			{Name: "country", Label: "Followers by country", Metric: "followersByCountry", Endpoint: EndpointDistribution, Shape: ShapeDistribution, Subject: "account"},
			{Name: "city", Label: "Followers by city", Metric: "followersByCity", Endpoint: EndpointDistribution, Shape: ShapeDistribution, Subject: "account"},
		},
	},
	NetworkYouTube: {
		Network:     NetworkYouTube,
		ProbeMetric: "views",
		Metrics: []MetricSpec{
			{Name: "views", Label: "Views", Metric: "views", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateSum, Subject: "account"},
			{Name: "likes", Label: "Likes", Metric: "likes", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateSum, Subject: "account"},
			{Name: "dislikes", Label: "Dislikes", Metric: "dislikes", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateSum, Subject: "account"},
			{Name: "comments", Label: "Comments", Metric: "comments", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateSum, Subject: "account"},
			{Name: "shares", Label: "Shares", Metric: "shares", Endpoint: EndpointTimelines, Shape: ShapeTimeline, Aggregate: AggregateSum, Subject: "account"},
		},
	},
	NetworkWebAnalytics: {
		Network: NetworkWebAnalytics,
		Metrics: []MetricSpec{
			{Name: "page_views", Label: "Page views", Metric: "PageViews", Endpoint: EndpointStatsTimeline, Shape: ShapePairs, Aggregate: AggregateSum},
			{Name: "sessions", Label: "Sessions", Metric: "SessionsCount", Endpoint: EndpointStatsTimeline, Shape: ShapePairs, Aggregate: AggregateSum},
			{Name: "visitors", Label: "Visitors", Metric: "Visitors", Endpoint: EndpointStatsTimeline, Shape: ShapePairs, Aggregate: AggregateSum},
			{Name: "posts", Label: "Posts", Metric: "DailyPosts", Endpoint: EndpointStatsTimeline, Shape: ShapePairs, Aggregate: AggregateSum},
			{Name: "comments", Label: "Comments", Metric: "DailyComments", Endpoint: EndpointStatsTimeline, Shape: ShapePairs, Aggregate: AggregateSum},
		},
		Breakdowns: []MetricSpec{
			{Name: "country", Label: "Visits by country", Metric: "country", Endpoint: EndpointStatsDistribution, Shape: ShapeDistribution},
			{Name: "referers", Label: "Top pages", Metric: "referers", Endpoint: EndpointStatsDistribution, Shape: ShapeDistribution},
			{Name: "sources", Label: "Traffic sources", Metric: "sources", Endpoint: EndpointStatsDistribution, Shape: ShapeDistribution},
		},
	},
}

// CatalogFor returns the metric catalog of a network.
func CatalogFor(n Network) (NetworkCatalog, bool) {
	c, ok := catalogs[n]
	return c, ok
}
