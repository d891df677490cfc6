package geo

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDictionary is returned when a dictionary file has no entries.
var ErrEmptyDictionary = errors.New("geo dictionary is empty")

// LoadDictionary reads a full YAML dictionary from path. Order in the file
// is resolution priority.
func LoadDictionary(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geo dictionary %s: %w", path, err)
	}
	return ParseDictionary(data)
}

// ParseDictionary decodes a YAML list of entries and validates it.
func ParseDictionary(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse geo dictionary: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyDictionary
	}
	for i, e := range entries {
		if e.Area == "" {
			return nil, fmt.Errorf("geo dictionary entry %d: area is required", i)
		}
		if len(e.Names) == 0 {
			return nil, fmt.Errorf("geo dictionary entry %d (%s): at least one name is required", i, e.Area)
		}
		if (e.Lat == nil) != (e.Lng == nil) {
			return nil, fmt.Errorf("geo dictionary entry %d (%s): lat and lng must be set together", i, e.Area)
		}
	}
	return entries, nil
}

func coord(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func entry(area string, lat, lng float64, names ...string) Entry {
	la, ln := coord(lat, lng)
	return Entry{Names: names, Area: area, Lat: la, Lng: ln}
}

// DefaultDictionary returns the built-in dictionary. Neighbourhoods and
// landmarks come first, then cities, then the generic Seoul and Korea
// entries so that narrow aliases always get first refusal.
func DefaultDictionary() []Entry {
	return []Entry{
		// Seoul landmarks and stations
		entry("Seoul Station", 37.5547, 126.9707, "서울역", "seoul station"),
		entry("Incheon Airport", 37.4602, 126.4407, "인천공항", "incheon airport", "incheon international airport"),
		entry("Gimpo Airport", 37.5587, 126.7945, "김포공항", "gimpo airport"),
		entry("Gyeongbokgung", 37.5796, 126.9770, "경복궁", "gyeongbokgung"),
		entry("Lotte World Tower", 37.5126, 127.1025, "롯데월드타워", "lotte world tower"),
		entry("DDP", 37.5663, 127.0092, "동대문디자인플라자", "dongdaemun design plaza"),

		// Seoul neighbourhoods
		entry("Seongsu-dong", 37.5446, 127.0559, "성수", "seongsu"),
		entry("Yeonnam-dong", 37.5660, 126.9250, "연남", "yeonnam"),
		entry("Mangwon-dong", 37.5558, 126.9019, "망원", "mangwon"),
		entry("Hongdae", 37.5563, 126.9236, "홍대", "hongdae", "hongik univ"),
		entry("Sinchon", 37.5551, 126.9368, "신촌", "sinchon"),
		entry("Itaewon", 37.5345, 126.9946, "이태원", "itaewon"),
		entry("Hannam-dong", 37.5340, 127.0026, "한남", "hannam"),
		entry("Myeongdong", 37.5636, 126.9826, "명동", "myeongdong", "myeong-dong"),
		entry("Euljiro", 37.5660, 126.9910, "을지로", "euljiro"),
		entry("Insadong", 37.5740, 126.9850, "인사동", "insadong", "insa-dong"),
		entry("Bukchon", 37.5826, 126.9830, "북촌", "bukchon"),
		entry("Ikseon-dong", 37.5743, 126.9897, "익선", "ikseon"),
		entry("Jongno", 37.5704, 126.9910, "종로", "jongno"),
		entry("Dongdaemun", 37.5714, 127.0095, "동대문", "dongdaemun"),
		entry("Garosu-gil", 37.5208, 127.0227, "가로수길", "garosu-gil", "garosugil"),
		entry("Apgujeong", 37.5271, 127.0286, "압구정", "apgujeong"),
		entry("Cheongdam", 37.5250, 127.0490, "청담", "cheongdam"),
		entry("Gangnam", 37.4979, 127.0276, "강남", "gangnam"),
		entry("Jamsil", 37.5133, 127.1000, "잠실", "jamsil"),
		entry("Yeouido", 37.5219, 126.9245, "여의도", "yeouido"),
		entry("Mapo", 37.5663, 126.9016, "마포", "mapo"),
		entry("Yongsan", 37.5326, 126.9905, "용산", "yongsan"),

		// Regions and cities
		entry("Haeundae", 35.1587, 129.1604, "해운대", "haeundae"),
		entry("Busan", 35.1796, 129.0756, "부산", "busan"),
		entry("Incheon", 37.4563, 126.7052, "인천", "incheon"),
		entry("Suwon", 37.2636, 127.0286, "수원", "suwon"),
		entry("Daegu", 35.8714, 128.6014, "대구", "daegu"),
		entry("Daejeon", 36.3504, 127.3845, "대전", "daejeon"),
		entry("Gwangju", 35.1595, 126.8526, "광주", "gwangju"),
		entry("Jeonju", 35.8242, 127.1480, "전주", "jeonju"),
		entry("Gyeongju", 35.8562, 129.2247, "경주", "gyeongju"),
		entry("Gangneung", 37.7519, 128.8761, "강릉", "gangneung"),
		entry("Sokcho", 38.2070, 128.5918, "속초", "sokcho"),
		entry("Jeju", 33.4996, 126.5312, "제주", "jeju"),

		// Generic tail
		entry("Seoul", 37.5665, 126.9780, "서울", "seoul"),
		{Names: []string{"대한민국", "한국", "south korea", "korea"}, Area: "Korea"},
	}
}
