package web

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smolensk-traffic/portal/internal/models"
	"github.com/smolensk-traffic/portal/internal/view"
)

func (s *Server) homePage(c *gin.Context) {
	page, err := view.Load(c.Request.Context(), s.content.Home)
	render(s, c, "home.html", "Traffic management center", page, err, nil)
}

func (s *Server) teamPage(c *gin.Context) {
	page, err := view.Load(c.Request.Context(), s.content.Team)
	render(s, c, "team.html", "Team", page, err, nil)
}

func (s *Server) newsPage(c *gin.Context) {
	page, err := view.Load(c.Request.Context(), s.content.News)
	render(s, c, "news.html", "News", page, err, nil)
}

func (s *Server) servicesPage(c *gin.Context) {
	page, err := view.Load(c.Request.Context(), s.content.Services)
	render(s, c, "services.html", "Services", page, err, nil)
}

func (s *Server) projectsPage(c *gin.Context) {
	page, err := view.Load(c.Request.Context(), s.content.Projects)
	render(s, c, "projects.html", "Projects", page, err, nil)
}

func (s *Server) statisticsPage(c *gin.Context) {
	tab, err := view.ParseTab(c.Query("tab"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	page, err := view.Load(ctx, s.content.Statistics)
	if err != nil {
		render(s, c, "statistics.html", "", page, err, nil)
		return
	}

	traffic, err := view.Load(ctx, s.content.Traffic)
	if err != nil {
		render(s, c, "statistics.html", "", page, err, nil)
		return
	}

	render(s, c, "statistics.html", "Statistics", page, nil, gin.H{
		"tab":        tab,
		"tabs":       view.Tabs,
		"indicators": view.Indicators(tab, page.Data),
		"traffic":    traffic,
	})
}

var templateFuncs = template.FuncMap{
	"number":   view.FormatNumber,
	"currency": view.FormatCurrency,
	"count":    func(n int) string { return view.FormatNumber(int64(n)) },
	"date": func(n models.NewsItem) string {
		if n.Date.IsZero() {
			return ""
		}
		return n.Date.Format("02.01.2006")
	},
	"deref": func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	},
	"ready":  func(s view.Status) bool { return s == view.StatusReady },
	"failed": func(s view.Status) bool { return s == view.StatusFailed },
}
