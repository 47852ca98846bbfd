// Package uischema loads presentation overrides for forms from YAML or JSON
// documents. A document can relabel fields, attach help text, hide labels,
// swap a field's fragment template, describe form chrome such as a title and
// icon, and ship a theme manifest. Form definitions stay free of
// presentation concerns; callers apply a Store to a form before binding it.
package uischema
