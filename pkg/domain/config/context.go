package config

import "time"

// Context identifies one resolution request: which organization and
// template, and optionally which team and repository type.
type Context struct {
	Organization   string
	Template       string
	Team           string
	RepositoryType string
	CreatedAt      time.Time
}

// NewContext builds a resolution context for an organization and template.
func NewContext(organization, template string) *Context {
	return &Context{
		Organization: organization,
		Template:     template,
		CreatedAt:    time.Now().UTC(),
	}
}

// WithTeam sets the owning team.
func (c *Context) WithTeam(team string) *Context {
	c.Team = team
	return c
}

// WithRepositoryType sets the repository type.
func (c *Context) WithRepositoryType(repositoryType string) *Context {
	c.RepositoryType = repositoryType
	return c
}
