package jats

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// editorialContribTypes maps the user groups credited in journal-meta to
// their JATS contributor type.
var editorialContribTypes = map[string]string{
	"default.groups.name.manager":       "jmanager",
	"default.groups.name.editor":        "editor",
	"default.groups.name.sectionEditor": "secteditor",
}

// editorialTeam replaces the journal-meta contributor group listing the
// journal's managers and editors.
func (m *merger) editorialTeam() error {
	if m.opts.Directory == nil {
		return nil
	}

	for _, group := range m.journalMeta.SelectElements("contrib-group") {
		if isEditorialGroup(group) {
			m.journalMeta.RemoveChild(group)
		}
	}

	groups, err := m.opts.Directory.UserGroups(m.rec.Journal.ID)
	if err != nil {
		return fmt.Errorf("listing user groups of journal %d: %w", m.rec.Journal.ID, err)
	}

	contribGroup := etree.NewElement("contrib-group")
	preferred := []string{m.primaryLocale(), m.rec.Journal.PrimaryLocale}
	for _, group := range groups {
		contribType, ok := editorialContribTypes[group.NameLocaleKey]
		if !ok {
			continue
		}
		users, err := m.opts.Directory.UsersInGroup(group.ID)
		if err != nil {
			return fmt.Errorf("listing members of user group %d: %w", group.ID, err)
		}
		for _, user := range users {
			contrib := contribGroup.CreateElement("contrib")
			contrib.CreateAttr("contrib-type", contribType)
			name := contrib.CreateElement("name")
			if surname := user.FamilyName.Best(preferred...); surname != "" {
				name.CreateElement("surname").SetText(surname)
			}
			given := user.GivenName.Best(preferred...)
			if middle := strings.TrimSpace(user.MiddleName); middle != "" {
				given += " " + middle
			}
			name.CreateElement("given-names").SetText(given)
		}
	}

	if len(contribGroup.ChildElements()) > 0 {
		AddChildInOrder(m.journalMeta, contribGroup)
	}
	return nil
}

// isEditorialGroup reports whether every contributor in group carries one
// of the editorial contributor types.
func isEditorialGroup(group *etree.Element) bool {
	contribs := group.SelectElements("contrib")
	if len(contribs) == 0 {
		return false
	}
	for _, contrib := range contribs {
		switch contrib.SelectAttrValue("contrib-type", "") {
		case "jmanager", "editor", "secteditor":
		default:
			return false
		}
	}
	return true
}

// stripAuthorEmails removes every email address from article-meta: those
// in contributor groups, correspondence notes, affiliations and directly
// under article-meta.
func (m *merger) stripAuthorEmails() {
	for _, email := range m.articleMeta.FindElements(".//email") {
		if parent := email.Parent(); parent != nil {
			parent.RemoveChild(email)
		}
	}
}
