package doctree

// Route is one pre-renderable documentation page.
type Route struct {
	Path    string `json:"path"`
	Section string `json:"section"`
	// Slug is "index" for every index file, otherwise the relative path.
	Slug string `json:"slug"`
	// Key is the relative path, unique within the section.
	Key string `json:"key"`
}

// Routes lists one route per file of the section, ordered by relative path.
func (idx *Index) Routes(section string) []Route {
	files := idx.files[section]
	routes := make([]Route, 0, len(files))
	for i := range files {
		f := &files[i]
		routes = append(routes, Route{
			Path:    f.URLPath,
			Section: section,
			Slug:    f.Slug(),
			Key:     f.RelativePath,
		})
	}
	return routes
}

// AllRoutes concatenates the routes of every section in section order.
func (idx *Index) AllRoutes() []Route {
	var routes []Route
	for _, s := range idx.sections {
		routes = append(routes, idx.Routes(s.Key)...)
	}
	return routes
}
