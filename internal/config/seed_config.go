package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ProductSeed struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Price    float64 `yaml:"price"`
	Cost     float64 `yaml:"cost"`
	Category string  `yaml:"category"`
	Stock    int     `yaml:"stock"`
	MinStock int     `yaml:"min_stock"`
	Image    string  `yaml:"image"`
}

type StaffSeed struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// SeedConfig 首次啟動時寫入空資料表的初始資料
type SeedConfig struct {
	Products []ProductSeed `yaml:"products"`
	Staff    []StaffSeed   `yaml:"staff"`
}

// LoadSeedConfig 讀取 yaml seed 檔, path 為空時使用內建資料
func LoadSeedConfig(path string) (*SeedConfig, error) {
	if path == "" {
		return DefaultSeedConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	seed := &SeedConfig{}
	if err := yaml.Unmarshal(data, seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return seed, nil
}

func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		Products: []ProductSeed{
			{ID: "1", Name: "Cutting Chai", Price: 25, Cost: 8, Category: "Beverages", Stock: 200, MinStock: 30,
				Image: "https://images.unsplash.com/photo-1594631252845-29fc4586d51c?q=80&w=200&h=200&auto=format&fit=crop"},
			{ID: "2", Name: "Bun Maska", Price: 45, Cost: 15, Category: "Food", Stock: 40, MinStock: 10,
				Image: "https://images.unsplash.com/photo-1509440159596-0249088772ff?q=80&w=200&h=200&auto=format&fit=crop"},
			{ID: "3", Name: "Mumbai Vada Pav", Price: 35, Cost: 12, Category: "Food", Stock: 50, MinStock: 15,
				Image: "https://images.unsplash.com/photo-1606491956689-2ea8c5119c85?q=80&w=200&h=200&auto=format&fit=crop"},
			{ID: "4", Name: "Filter Coffee", Price: 60, Cost: 20, Category: "Beverages", Stock: 100, MinStock: 20,
				Image: "https://images.unsplash.com/photo-1541167760496-162955ed8a9f?q=80&w=200&h=200&auto=format&fit=crop"},
			{ID: "5", Name: "Cheese Chili Toast", Price: 120, Cost: 45, Category: "Food", Stock: 30, MinStock: 8,
				Image: "https://images.unsplash.com/photo-1525351484163-7529414344d8?q=80&w=200&h=200&auto=format&fit=crop"},
			{ID: "6", Name: "Cold Coffee with Ice Cream", Price: 150, Cost: 60, Category: "Beverages", Stock: 25, MinStock: 5,
				Image: "https://images.unsplash.com/photo-1517701604599-bb29b565090c?q=80&w=200&h=200&auto=format&fit=crop"},
			{ID: "7", Name: "Peri Peri Fries", Price: 110, Cost: 40, Category: "Food", Stock: 60, MinStock: 10,
				Image: "https://images.unsplash.com/photo-1630384060421-cb20d0e0649d?q=80&w=200&h=200&auto=format&fit=crop"},
			{ID: "8", Name: "Gulab Jamun (2pcs)", Price: 80, Cost: 30, Category: "Dessert", Stock: 20, MinStock: 5,
				Image: "https://images.unsplash.com/photo-1589119908995-c6837fa14848?q=80&w=200&h=200&auto=format&fit=crop"},
		},
		Staff: []StaffSeed{
			{ID: "s1", Name: "Rahul Sharma", Role: "Manager"},
			{ID: "s2", Name: "Priya Nair", Role: "Barista"},
		},
	}
}
