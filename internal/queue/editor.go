// Package queue содержит редактор очереди песен станции
package queue

import (
	"errors"
	"slices"
)

// ErrStaleTrigger возвращается, если действие строки получено из устаревшей отрисовки
var ErrStaleTrigger = errors.New("действие относится к устаревшей отрисовке очереди")

// Action определяет тип действия над строкой очереди
type Action int

// Действия, доступные для каждой строки
const (
	// ActionRemove - удалить строку
	ActionRemove Action = iota
	// ActionMoveUp - поднять строку на одну позицию
	ActionMoveUp
	// ActionMoveDown - опустить строку на одну позицию
	ActionMoveDown
)

func (a Action) String() string {
	switch a {
	case ActionRemove:
		return "Remove"
	case ActionMoveUp:
		return "Move Up"
	case ActionMoveDown:
		return "Move Down"
	default:
		return "Unknown"
	}
}

// Trigger привязывает действие к индексу строки на момент отрисовки
type Trigger struct {
	Action     Action
	Index      int
	generation uint64
}

// RowView представляет одну строку таблицы очереди
type RowView struct {
	Index    int
	Text     string
	Remove   Trigger
	MoveUp   Trigger
	MoveDown Trigger
}

// Triggers возвращает действия строки в порядке отображения кнопок
func (r RowView) Triggers() []Trigger {
	return []Trigger{r.Remove, r.MoveUp, r.MoveDown}
}

// Project строит представление очереди. Индексы вычисляются заново при каждом вызове.
func Project(items []string, generation uint64) []RowView {
	rows := make([]RowView, len(items))
	for i, item := range items {
		rows[i] = RowView{
			Index:    i,
			Text:     item,
			Remove:   Trigger{Action: ActionRemove, Index: i, generation: generation},
			MoveUp:   Trigger{Action: ActionMoveUp, Index: i, generation: generation},
			MoveDown: Trigger{Action: ActionMoveDown, Index: i, generation: generation},
		}
	}
	return rows
}

// Editor хранит упорядоченный список идентификаторов треков.
// Editor не безопасен для конкурентного использования.
type Editor struct {
	items      []string
	saved      []string
	rows       []RowView
	generation uint64
}

// NewEditor создает пустой редактор очереди
func NewEditor() *Editor {
	e := &Editor{
		items: make([]string, 0),
		saved: make([]string, 0),
	}
	e.rerender()
	return e
}

// Load полностью заменяет очередь снимком, полученным с сервера
func (e *Editor) Load(initial []string) {
	e.items = slices.Clone(initial)
	if e.items == nil {
		e.items = make([]string, 0)
	}
	e.saved = slices.Clone(e.items)
	e.rerender()
}

// Append добавляет трек в конец очереди. Дубликаты допускаются.
func (e *Editor) Append(item string) {
	e.items = append(e.items, item)
	e.rerender()
}

// RemoveAt удаляет трек по индексу. Индекс вне диапазона игнорируется.
func (e *Editor) RemoveAt(index int) {
	if index < 0 || index >= len(e.items) {
		return
	}
	e.items = slices.Delete(e.items, index, index+1)
	e.rerender()
}

// MoveUp меняет трек местами с предыдущим
func (e *Editor) MoveUp(index int) {
	if index <= 0 || index >= len(e.items) {
		return
	}
	e.items[index-1], e.items[index] = e.items[index], e.items[index-1]
	e.rerender()
}

// MoveDown меняет трек местами со следующим
func (e *Editor) MoveDown(index int) {
	if index < 0 || index >= len(e.items)-1 {
		return
	}
	e.items[index], e.items[index+1] = e.items[index+1], e.items[index]
	e.rerender()
}

// Render возвращает строки текущей отрисовки
func (e *Editor) Render() []RowView {
	return slices.Clone(e.rows)
}

// Trigger выполняет действие строки из текущей отрисовки
func (e *Editor) Trigger(t Trigger) error {
	if t.generation != e.generation {
		return ErrStaleTrigger
	}

	switch t.Action {
	case ActionRemove:
		e.RemoveAt(t.Index)
	case ActionMoveUp:
		e.MoveUp(t.Index)
	case ActionMoveDown:
		e.MoveDown(t.Index)
	}
	return nil
}

// Serialize возвращает копию очереди для отправки на сервер
func (e *Editor) Serialize() []string {
	return slices.Clone(e.items)
}

// Items возвращает копию текущей очереди
func (e *Editor) Items() []string {
	return slices.Clone(e.items)
}

// Len возвращает количество треков в очереди
func (e *Editor) Len() int {
	return len(e.items)
}

// Dirty сообщает, отличается ли очередь от последнего загруженного или сохраненного состояния
func (e *Editor) Dirty() bool {
	return !slices.Equal(e.items, e.saved)
}

// MarkSaved запоминает переданный снимок как сохраненный на сервере
func (e *Editor) MarkSaved(snapshot []string) {
	e.saved = slices.Clone(snapshot)
	if e.saved == nil {
		e.saved = make([]string, 0)
	}
}

// rerender полностью перестраивает строки; прежние привязки становятся недействительными
func (e *Editor) rerender() {
	e.generation++
	e.rows = Project(e.items, e.generation)
}
