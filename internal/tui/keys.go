package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Draw   key.Binding
	Lists  key.Binding
	Rules  key.Binding
	Open   key.Binding
	Add    key.Binding
	Edit   key.Binding
	Rename key.Binding
	Delete key.Binding
	Toggle key.Binding
	Save   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Draw:   key.NewBinding(key.WithKeys("enter", "g"), key.WithHelp("enter", "draw")),
	Lists:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lists")),
	Rules:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rules")),
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "items")),
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Rename: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "rename")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "pick")),
	Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}

func (k keyMap) listsHelp() []key.Binding {
	return []key.Binding{k.Open, k.Add, k.Edit, k.Delete, k.Back, k.Quit}
}

func (k keyMap) itemsHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Back, k.Quit}
}

func (k keyMap) rulesHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Rename, k.Delete, k.Back, k.Quit}
}

func (k keyMap) builderHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Save, k.Back}
}
