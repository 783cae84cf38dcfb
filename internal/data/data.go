// Package data хранит локальные данные приложения: известные станции и черновики очередей
package data

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// StationRecord - станция, с которой работал пользователь
type StationRecord struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Draft - локальная копия очереди станции
type Draft struct {
	StationID string    `yaml:"station_id"`
	Order     []string  `yaml:"order"`
	SavedAt   time.Time `yaml:"saved_at"`
}

type AppData struct {
	Stations []StationRecord `yaml:"stations"`
	Drafts   []Draft         `yaml:"drafts"`
}

// NewAppData создает новую структуру AppData
func NewAppData() *AppData {
	return &AppData{
		Stations: make([]StationRecord, 0),
		Drafts:   make([]Draft, 0),
	}
}

// LoadData загружает данные из файла
func (d *AppData) LoadData(filePath string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	path := strings.Replace(filePath, "~", home, 1)

	data, err := os.ReadFile(path)
	if err != nil {
		// Если файл не найден, инициализируем пустыми данными
		if os.IsNotExist(err) {
			*d = *NewAppData()
			return nil
		}
		return fmt.Errorf("ошибка чтения файла данных: %w", err)
	}
	if len(data) == 0 {
		*d = *NewAppData()
		return nil
	}
	if err := yaml.Unmarshal(data, d); err != nil {
		return fmt.Errorf("ошибка разбора данных: %w", err)
	}
	return nil
}

// SaveData сохраняет данные в файл
func (d *AppData) SaveData(filePath string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	path := strings.Replace(filePath, "~", home, 1)

	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("ошибка сериализации данных: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла данных: %w", err)
	}
	return nil
}

// RememberStation добавляет станцию или обновляет уже известную
func (d *AppData) RememberStation(record StationRecord) {
	for i := range d.Stations {
		if d.Stations[i].ID == record.ID {
			d.Stations[i] = record
			return
		}
	}
	d.Stations = append(d.Stations, record)
}

// ForgetStation удаляет станцию и ее черновик
func (d *AppData) ForgetStation(id string) error {
	idx := slices.IndexFunc(d.Stations, func(s StationRecord) bool { return s.ID == id })
	if idx < 0 {
		return fmt.Errorf("станция %q не найдена", id)
	}
	d.Stations = slices.Delete(d.Stations, idx, idx+1)
	d.DeleteDraft(id)
	return nil
}

// StationByID возвращает станцию по ID
func (d *AppData) StationByID(id string) (*StationRecord, error) {
	for i := range d.Stations {
		if d.Stations[i].ID == id {
			return &d.Stations[i], nil
		}
	}
	return nil, fmt.Errorf("станция %q не найдена", id)
}

// SaveDraft сохраняет копию очереди станции, заменяя предыдущую
func (d *AppData) SaveDraft(stationID string, order []string, savedAt time.Time) {
	draft := Draft{
		StationID: stationID,
		Order:     slices.Clone(order),
		SavedAt:   savedAt,
	}
	if draft.Order == nil {
		draft.Order = make([]string, 0)
	}

	for i := range d.Drafts {
		if d.Drafts[i].StationID == stationID {
			d.Drafts[i] = draft
			return
		}
	}
	d.Drafts = append(d.Drafts, draft)
}

// DraftFor возвращает черновик очереди станции
func (d *AppData) DraftFor(stationID string) (*Draft, error) {
	for i := range d.Drafts {
		if d.Drafts[i].StationID == stationID {
			return &d.Drafts[i], nil
		}
	}
	return nil, fmt.Errorf("черновик очереди для станции %q не найден", stationID)
}

// DeleteDraft удаляет черновик станции, если он есть
func (d *AppData) DeleteDraft(stationID string) {
	d.Drafts = slices.DeleteFunc(d.Drafts, func(dr Draft) bool { return dr.StationID == stationID })
}
