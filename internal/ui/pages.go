package ui

import (
	"fmt"
	"time"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/pgdesk/pgdesk/internal/domain"
)

type navItem struct {
	Label string
	Href  string
	Key   string
}

var navItems = []navItem{
	{Label: "Overview", Href: "/ui", Key: "home"},
	{Label: "Connections", Href: "/ui/connections", Key: "connections"},
	{Label: "Tables", Href: "/ui/tables", Key: "tables"},
	{Label: "SQL", Href: "/ui/sql", Key: "sql"},
	{Label: "Activity", Href: "/ui/activity", Key: "activity"},
}

func appPage(title, active string, body ...Node) Node {
	nav := make([]Node, 0, len(navItems))
	for _, item := range navItems {
		className := "nav-link"
		if item.Key == active {
			className += " active"
		}
		nav = append(nav, A(Href(item.Href), Class(className), Text(item.Label)))
	}

	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | pgdesk")),
			Link(Rel("icon"), Href("data:,")),
			StyleEl(Raw(appCSS)),
		),
		Body(
			Main(Class("shell"),
				Aside(Class("sidebar"),
					Div(Class("brand"), Strong(Text("pgdesk")), P(Class("muted"), Text("PostgreSQL console"))),
					Nav(Class("nav"), Group(nav)),
				),
				Section(Class("main"),
					H1(Class("page-title"), Text(title)),
					Group(body),
				),
			),
		),
	)
}

func errorPage(title string, err error) Node {
	return appPage(title, "",
		Div(Class("error"), P(Text(err.Error()))),
	)
}

func overviewPage(active *domain.Connection, connCount int, tableCount int) Node {
	var status Node
	if active != nil {
		status = Div(Class("card"),
			H2(Text("Active connection")),
			P(Text(fmt.Sprintf("%s — %s:%d/%s", active.Name, active.Host, active.Port, active.Database))),
		)
	} else {
		status = Div(Class("card"),
			H2(Text("No active connection")),
			P(Text("Register and activate a connection to browse data.")),
			A(Href("/ui/connections"), Text("Go to connections")),
		)
	}
	return appPage("Overview", "home",
		status,
		Div(Class("card"),
			P(Text(fmt.Sprintf("%d connections registered, %d tables cached.", connCount, tableCount))),
		),
	)
}

func connectionsPage(conns []domain.Connection) Node {
	rows := make([]Node, 0, len(conns))
	for _, c := range conns {
		activeLabel := ""
		if c.IsActive {
			activeLabel = "active"
		}
		rows = append(rows, Tr(
			Td(Text(c.Name)),
			Td(Text(fmt.Sprintf("%s:%d", c.Host, c.Port))),
			Td(Text(c.Database)),
			Td(Text(c.Username)),
			Td(Class("status"), Text(activeLabel)),
		))
	}
	return appPage("Connections", "connections",
		connTable([]string{"Name", "Host", "Database", "User", ""}, rows),
	)
}

func tablesPage(tables []domain.TableInfo) Node {
	rows := make([]Node, 0, len(tables))
	for _, t := range tables {
		rows = append(rows, Tr(
			Td(Text(t.Schema)),
			Td(A(Href("/ui/tables/"+t.Name), Text(t.Name))),
		))
	}
	return appPage("Tables", "tables",
		connTable([]string{"Schema", "Table"}, rows),
	)
}

func tableDataPage(table string, page *domain.RowPage, columns []domain.ColumnInfo) Node {
	header := make([]Node, 0, len(columns))
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		label := c.Name
		if c.IsPrimary {
			label += " *"
		}
		header = append(header, Th(Text(label)))
		names = append(names, c.Name)
	}

	body := make([]Node, 0, len(page.Rows))
	for _, row := range page.Rows {
		cells := make([]Node, 0, len(names))
		for _, name := range names {
			cells = append(cells, Td(Text(cellString(row[name]))))
		}
		body = append(body, Tr(Group(cells)))
	}

	return appPage(table, "tables",
		P(Class("muted"), Text(fmt.Sprintf("%d rows, page %d of %d",
			page.Pagination.Total, page.Pagination.Page, page.Pagination.TotalPages))),
		Table(Class("data"),
			THead(Tr(Group(header))),
			TBody(Group(body)),
		),
	)
}

func activityPage(entries []domain.ActivityEntry) Node {
	rows := make([]Node, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Tr(
			Td(Text(e.CreatedAt.Format(time.RFC3339))),
			Td(Text(e.Operation)),
			Td(Class("status"), Text(e.Status)),
			Td(Text(e.Details)),
		))
	}
	return appPage("Activity", "activity",
		connTable([]string{"When", "Operation", "Status", "Details"}, rows),
	)
}

func sqlPage(sqlText string, result *domain.QueryResult, execErr error) Node {
	body := []Node{
		Form(Method("post"), Action("/ui/sql"),
			Textarea(Name("sql"), Rows("6"), Class("sql-input"), Text(sqlText)),
			Button(Type("submit"), Text("Run")),
		),
	}
	if execErr != nil {
		body = append(body, Div(Class("error"), P(Text(execErr.Error()))))
	}
	if result != nil {
		header := make([]Node, 0, len(result.Columns))
		for _, c := range result.Columns {
			header = append(header, Th(Text(c)))
		}
		rows := make([]Node, 0, len(result.Rows))
		for _, r := range result.Rows {
			cells := make([]Node, 0, len(r))
			for _, v := range r {
				cells = append(cells, Td(Text(cellString(v))))
			}
			rows = append(rows, Tr(Group(cells)))
		}
		body = append(body,
			P(Class("muted"), Text(fmt.Sprintf("%d rows", result.RowCount))),
			Table(Class("data"), THead(Tr(Group(header))), TBody(Group(rows))),
		)
	}
	return appPage("SQL", "sql", Group(body))
}

func connTable(headers []string, rows []Node) Node {
	head := make([]Node, 0, len(headers))
	for _, h := range headers {
		head = append(head, Th(Text(h)))
	}
	return Table(Class("data"),
		THead(Tr(Group(head))),
		TBody(Group(rows)),
	)
}

func cellString(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
