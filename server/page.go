package server

import (
	"html/template"
	"net/http"
	"net/url"

	"influencer-dashboard/charts"
	"influencer-dashboard/models"
	"influencer-dashboard/services"
)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"si": services.FormatSI,
	"percent": func(v *float64) string {
		if v == nil {
			return "n/a"
		}
		return services.FormatSI(*v) + "%"
	},
	"has": func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Top Instagrams Influencers Dashboard</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 0 auto; color: #6c2167; }
.indicators { display: flex; gap: 2rem; }
.indicator { flex: 1; text-align: center; font-size: 20px; }
.indicator b { display: block; font-size: 28px; }
img { width: 100%; }
select { min-width: 220px; height: 140px; }
</style>
</head>
<body>
<h1>Top Instagrams Influencers Dashboard</h1>
<form method="get">
  <input type="hidden" name="country" value="">
  <input type="hidden" name="influencer" value="">
  <input type="hidden" name="scope" value="">
  {{range .Report.Selection.Countries}}<input type="hidden" name="scope" value="{{.}}">{{end}}
  <label>Select Country:
    <select name="country" multiple>
    {{range .Countries}}<option{{if has $.Report.Selection.Countries .}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <label>Select Influencer:
    <select name="influencer" multiple>
    {{range .Influencers}}<option{{if has $.Report.Selection.Influencers .}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <button type="submit">Apply</button>
</form>
<section class="indicators">
  <div class="indicator">Total Likes<b>{{si .Report.Indicators.TotalLikes}}</b></div>
  <div class="indicator">Avg Engagement Rate<b>{{percent .Report.Indicators.AvgEngagementRate}}</b></div>
  <div class="indicator">Total Followers<b>{{si .Report.Indicators.TotalFollowers}}</b></div>
</section>
{{range .Charts}}{{$title := .TitleFor $.Report}}<h2>{{$title}}</h2>
<img src="/api/charts/{{.ID}}.png?{{$.Query}}" alt="{{$title}}">
{{end}}
<p><a href="/api/export.csv?{{.Query}}">CSV</a> · <a href="/api/export.xlsx?{{.Query}}">Excel</a></p>
</body>
</html>
`))

type pageData struct {
	Report      *models.DashboardReport
	Countries   []string
	Influencers []string
	Charts      []charts.Spec
	Query       template.URL
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.pipeline.Report(sel)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	countries, influencers, err := s.pipeline.Options(sel.Countries)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	specs := make([]charts.Spec, 0, len(charts.Renderable))
	for _, id := range charts.Renderable {
		if spec, ok := charts.Lookup(id); ok {
			specs = append(specs, spec)
		}
	}

	q := url.Values{}
	q["country"] = sel.Countries
	q["influencer"] = sel.Influencers
	if len(sel.Countries) == 0 {
		q["country"] = []string{""}
	}
	if len(sel.Influencers) == 0 {
		q["influencer"] = []string{""}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = pageTemplate.Execute(w, pageData{
		Report:      report,
		Countries:   countries,
		Influencers: influencers,
		Charts:      specs,
		Query:       template.URL(q.Encode()),
	})
	if err != nil {
		s.logger.Error("[server] Render page: %v", err)
	}
}
