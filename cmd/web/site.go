package main

import "net/url"

type competency struct {
	Title       string
	Description string
}

type processStep struct {
	Step        string
	Title       string
	Description string
}

type contactInfo struct {
	Address      string
	Tel          string
	Fax          string
	Mobile       string
	ProjectEmail string
	TechEmail    string
	OpeningHours string
	ClosedDays   string
	KakaoMapURL  string
	NaverMapURL  string
}

//nolint:gochecknoglobals // static site content
var (
	competencies = []competency{
		{"특장차 제어 시스템 설계", "현장 경험을 바탕으로 최적의 구동 환경을 설계합니다."},
		{"전장 배선 설계 및 시공", "완성도 높은 배선으로 고장 없는 시스템을 보장합니다."},
		{"유압 · 전기 연동 시스템", "복합적인 구동 메커니즘을 유기적으로 연결합니다."},
		{"맞춤형 컨트롤 패널 제작", "조작 편의성과 내구성을 갖춘 컨트롤러를 직접 제작합니다."},
	}

	processSteps = []processStep{
		{"01", "상담 및 현장 분석", "차량의 용도와 작업 환경을 면밀히 검토합니다."},
		{"02", "설계 및 견적 제안", "분석 데이터를 기반으로 최적의 솔루션을 제안합니다."},
		{"03", "제작 및 배선 작업", "엄격한 공정 관리를 통해 정밀하게 시공합니다."},
		{"04", "통합 테스트 및 검증", "다양한 시나리오 하에 시스템 안정성을 확인합니다."},
		{"05", "출고 및 납품", "작업자 교육 및 최종 검수를 완료 후 인도합니다."},
		{"06", "A/S 및 유지관리", "지속적인 모니터링과 신속한 기술 지원을 제공합니다."},
	}

	siteContact = newContactInfo("전북 김제시 백산면 지평선산단1길 214-65")
)

func newContactInfo(address string) contactInfo {
	return contactInfo{
		Address:      address,
		Tel:          "063-542-7477",
		Fax:          "063-542-7478",
		Mobile:       "010-5526-3848",
		ProjectEmail: "automachine@myoungji.com",
		TechEmail:    "master@myoungji.com",
		OpeningHours: "09:00 - 17:00 (평일)",
		ClosedDays:   "토·일·공휴일 휴무",
		KakaoMapURL:  "https://map.kakao.com/link/search/" + url.PathEscape(address),
		NaverMapURL:  "https://map.naver.com/v5/search/" + url.PathEscape(address),
	}
}

// latestCaseCount is the number of cases on the home page.
const latestCaseCount = 4
